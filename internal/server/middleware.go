package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/quizgenie/quizgenie/internal/quizgenie"
)

type ctxKey int

const ctxKeyUser ctxKey = iota

// authMiddleware resolves the Authorization bearer token to a user and
// stores it in the request context. Requests without a valid token get a
// 401 and never reach the handler.
func authMiddleware(store Store, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := userFromRequest(r, store, secret)
			if errors.Is(err, errNoSession) {
				writeError(w, http.StatusUnauthorized, "invalid or missing token")
				return
			}
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "user not found")
				return
			}
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func userFromRequest(r *http.Request, store Store, secret string) (quizgenie.User, error) {
	auth := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found || token == "" {
		return quizgenie.User{}, errNoSession
	}

	userID, err := parseToken(secret, token)
	if err != nil {
		return quizgenie.User{}, err
	}
	return store.UserByID(r.Context(), userID)
}

func userFrom(r *http.Request) quizgenie.User {
	return r.Context().Value(ctxKeyUser).(quizgenie.User)
}
