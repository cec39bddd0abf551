package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/loci-labs/palace/internal/search"
)

var (
	recallLimit       int
	recallKeywordOnly bool
	recallFullContent bool
)

var recallCmd = &cobra.Command{
	Use:   "recall <query>",
	Short: "Search stored memories",
	Long: `Search stored memories with hybrid recall.

Semantic (vector similarity) results come first when an embedding
provider is reachable, then keyword (full-text) matches fill in the
rest. If no provider is available, recall silently degrades to
keyword-only search.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRecall,
}

func init() {
	recallCmd.Flags().IntVarP(&recallLimit, "limit", "n", 20, "maximum number of results")
	recallCmd.Flags().BoolVar(&recallKeywordOnly, "keyword-only", false, "skip semantic search")
	recallCmd.Flags().BoolVar(&recallFullContent, "full", false, "print full memory content")
}

func runRecall(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	env, err := openEnv(!recallKeywordOnly)
	if err != nil {
		return err
	}
	defer env.Close()

	opts := search.DefaultOptions()
	opts.Limit = recallLimit
	if recallKeywordOnly {
		opts.IncludeSemantic = false
	}

	results, err := env.searchService().Recall(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("recall: %w", err)
	}

	if len(results.Matches) == 0 {
		fmt.Printf("No memories found for %q.\n", query)
		return nil
	}

	fmt.Printf("MEMORIES (%d matches, %s)\n", len(results.Matches), results.Duration.Round(time.Millisecond))
	fmt.Println("──────────────────────────────────────────────────")

	for _, match := range results.Matches {
		marker := "⋅"
		if match.Source == search.MatchSemantic {
			marker = fmt.Sprintf("%.2f", match.Score)
		}
		fmt.Printf("  [%s] %s  (%s)\n", marker, match.Memory.Title, match.Memory.ID)
		if tags := match.Memory.GetTags(); len(tags) > 0 {
			fmt.Printf("        tags: %s\n", strings.Join(tags, ", "))
		}
		if recallFullContent {
			fmt.Printf("        %s\n", strings.ReplaceAll(match.Memory.Content, "\n", "\n        "))
		} else {
			fmt.Printf("        %s\n", summarize(match.Memory.Content, 120))
		}
		fmt.Println()
	}

	return nil
}

// summarize flattens content to a single line capped at max runes.
func summarize(content string, max int) string {
	flat := strings.Join(strings.Fields(content), " ")
	runes := []rune(flat)
	if len(runes) <= max {
		return flat
	}
	return string(runes[:max]) + "…"
}
