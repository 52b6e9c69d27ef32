package server

import (
	"net/http"
	"strings"
)

func handleListQuizzes(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filter := ListFilter{
			Search: strings.TrimSpace(q.Get("search")),
			Sort:   q.Get("sort"),
		}
		if d := q.Get("difficulty"); d != "" && d != "all" {
			filter.Difficulty = d
		}
		if c := q.Get("category"); c != "" && c != "all" {
			filter.Category = c
		}
		if tags := q.Get("tags"); tags != "" {
			for _, tag := range strings.Split(tags, ",") {
				if tag = strings.TrimSpace(tag); tag != "" {
					filter.Tags = append(filter.Tags, tag)
				}
			}
		}

		summaries, err := store.ListPublic(r.Context(), filter)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, summaries)
	}
}
