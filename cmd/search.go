package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobcoach/internal/assistant"
	"github.com/spigell/jobcoach/internal/chat"
	"github.com/spigell/jobcoach/internal/embedding"
	"github.com/spigell/jobcoach/internal/ranking"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search postings once, print the ranked results and answer optional questions",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		search(cmd, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("city", "c", "", "city to search in (overrides search.city)")
	searchCmd.Flags().IntP("count", "n", 0, "number of postings to fetch (overrides search.count)")
	searchCmd.Flags().IntP("top-k", "k", 0, "number of ranked postings to keep (overrides search.top-k)")
	searchCmd.Flags().StringArrayP("question", "q", nil, "a question to ask about the results, can be repeated")
}

func search(cmd *cobra.Command, query string) {
	ctx := context.Background()
	e := setup()
	defer e.flushMetrics()

	city, _ := cmd.Flags().GetString("city")
	count, _ := cmd.Flags().GetInt("count")
	topK, _ := cmd.Flags().GetInt("top-k")
	questions, _ := cmd.Flags().GetStringArray("question")

	a := e.newAssistant(ctx)
	session := chat.NewSession()
	out := cmd.OutOrStdout()

	outcome, err := a.Search(ctx, session, e.request(query, city, count, topK))
	if err != nil {
		if banner := embeddingBanner(err); banner != "" {
			fmt.Fprintln(out, banner)
		}
		e.logger.Fatal("search failed", zap.Error(err))
	}

	fmt.Fprintln(out, outcome.Summary.String())
	printResults(out, outcome.Results)

	for _, q := range questions {
		fmt.Fprintf(out, "\n> %s\n%s\n", q, a.Ask(session, q))
	}
}

func printResults(out io.Writer, results []ranking.Result) {
	for _, r := range results {
		p := r.Posting
		fmt.Fprintf(out, "%2d. [%.3f] %s / %s / %s\n    %s\n", r.Rank, r.Score, p.Title, p.Company, p.City, p.URL)
	}
}

// embeddingBanner renders an embedding failure for the user, or "" for other errors.
func embeddingBanner(err error) string {
	var embErr *embedding.Error
	if !errors.As(err, &embErr) {
		if errors.Is(err, assistant.ErrEmptyQuery) {
			return "Skriv vad du letar efter."
		}
		return ""
	}
	if embErr.Kind == embedding.KindRetryable {
		return fmt.Sprintf("Tjänsten för %s-embeddings svarar inte just nu. Försök igen om en stund.", embErr.Provider)
	}
	return fmt.Sprintf("Tjänsten för %s-embeddings avvisade anropet. Kontrollera konfigurationen.", embErr.Provider)
}
