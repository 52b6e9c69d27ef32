package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/quizgenie/quizgenie/internal/client"
	"github.com/quizgenie/quizgenie/internal/server"
)

func newListCmd() *cobra.Command {
	var (
		search     string
		difficulty string
		category   string
		tags       []string
		sort       string
		live       bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse public quizzes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			filter := client.Filter{
				Search:     search,
				Difficulty: difficulty,
				Category:   category,
				Tags:       tags,
				Sort:       sort,
			}

			if live {
				return liveSearch(cmd, e, filter)
			}

			quizzes, err := e.client.ListQuizzes(cmd.Context(), filter)
			if err != nil {
				return err
			}
			printListing(cmd.OutOrStdout(), quizzes)
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "free-text search in title and description")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "easy, medium, or hard")
	cmd.Flags().StringVar(&category, "category", "", "category filter")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "required tags")
	cmd.Flags().StringVar(&sort, "sort", "", "trending, newest, or top-rated")
	cmd.Flags().BoolVar(&live, "live", false, "interactive search: retype the query, results refresh as you go")
	return cmd
}

// liveSearch reads queries line by line and prints the listing for each,
// debounced through the Searcher so rapid edits only hit the server once.
func liveSearch(cmd *cobra.Command, e *env, filter client.Filter) error {
	out := cmd.OutOrStdout()

	var mu sync.Mutex
	searcher := client.NewSearcher(e.client, 0, func(quizzes []server.QuizSummary, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			fmt.Fprintln(out, "search failed:", err)
			return
		}
		printListing(out, quizzes)
		fmt.Fprint(out, "> ")
	})
	defer searcher.Close()

	searcher.SetDifficulty(filter.Difficulty)
	searcher.SetCategory(filter.Category)
	searcher.SetTags(filter.Tags)
	searcher.SetSort(filter.Sort)

	fmt.Fprintln(out, "type a query and press enter, empty line to quit")
	fmt.Fprint(out, "> ")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			break
		}
		searcher.SetQuery(query)
	}
	return scanner.Err()
}

func printListing(out io.Writer, quizzes []server.QuizSummary) {
	if len(quizzes) == 0 {
		fmt.Fprintln(out, "no quizzes found")
		return
	}
	for _, q := range quizzes {
		fmt.Fprintf(out, "%s  %-30q %s/%s  %d plays, rating %.1f\n",
			q.ID, q.Title, q.Category, q.Difficulty, q.Plays, q.Rating)
	}
}
