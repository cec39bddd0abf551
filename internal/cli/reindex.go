package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/loci-labs/palace/internal/search"
)

var reindexRateLimit int

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the semantic search index",
	Long: `Rebuild the semantic search index from the database.

Every memory whose content changed since it was last embedded is
re-embedded with the active provider. Unchanged memories are skipped,
so repeated runs are cheap. Requests are rate-limited to protect
remote provider quotas.`,
	RunE: runReindex,
}

func init() {
	reindexCmd.Flags().IntVar(&reindexRateLimit, "rate-limit", 0, "max embedding requests per minute (0 = default)")
}

func runReindex(cmd *cobra.Command, args []string) error {
	env, err := openEnv(true)
	if err != nil {
		return err
	}
	defer env.Close()

	if env.store == nil {
		return fmt.Errorf("vector store unavailable; cannot reindex")
	}

	if !env.provider.IsAvailable(cmd.Context()) {
		fmt.Println("Warning: embedding provider is not reachable; reindex will likely fail.")
	}

	cfg := search.DefaultIndexerConfig()
	if reindexRateLimit > 0 {
		cfg.RateLimit = reindexRateLimit
	}

	indexer := search.NewIndexer(env.database, env.store, cfg)

	progressCh := make(chan search.Progress, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range progressCh {
			fmt.Printf("\r  %d/%d embedded, %d skipped, %d failed",
				p.Completed, p.Total, p.Skipped, p.Failed)
		}
	}()

	progress, err := indexer.ReindexAll(cmd.Context(), progressCh)
	close(progressCh)
	<-done
	if err != nil {
		return fmt.Errorf("reindex: %w", err)
	}

	fmt.Printf("\rReindex complete in %s: %d embedded, %d skipped, %d failed (of %d)\n",
		progress.Duration.Round(time.Millisecond),
		progress.Completed, progress.Skipped, progress.Failed, progress.Total)

	return nil
}
