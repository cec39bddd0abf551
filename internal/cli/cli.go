// Package cli provides the command-line interface for Palace.
package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/loci-labs/palace/internal/config"
	"github.com/loci-labs/palace/internal/db"
	"github.com/loci-labs/palace/internal/embedding"
	"github.com/loci-labs/palace/internal/search"
	"github.com/loci-labs/palace/internal/vector"
	"github.com/loci-labs/palace/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "palace",
	Short: "Local-first memory palace with hybrid recall",
	Long: `Local-first memory palace with hybrid recall

Store notes, decisions, and snippets as memories, then recall them with
a combination of full-text and semantic search.

Embeddings come from a local Ollama instance by default. Set the
embedding_provider setting to "openai" to use any OpenAI-compatible
API instead (including Azure OpenAI deployments):

	palace config set embedding_provider openai
	palace config set openai_api_key sk-...`,
	SilenceUsage: true,
	RunE:         runStatus,
}

func init() {
	rootCmd.AddCommand(rememberCmd)
	rootCmd.AddCommand(recallCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(forgetCmd)
	rootCmd.AddCommand(reindexCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
}

// Execute runs the CLI with fang enhancements.
func Execute(ctx context.Context) error {
	return fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(version.Short()),
		fang.WithCommit(version.Commit),
	)
}

// runtimeEnv bundles the handles most commands need. Callers must Close it.
type runtimeEnv struct {
	cfg      *config.Config
	database *db.DB
	provider *embedding.Router
	store    vector.VectorStore
}

func (e *runtimeEnv) Close() {
	if e.store != nil {
		_ = e.store.Close()
	}
	if e.database != nil {
		_ = e.database.Close()
	}
}

// openEnv loads config and opens the database plus the embedding stack.
// The vector store is optional: a failure to open it degrades recall to
// keyword-only rather than blocking the command.
func openEnv(withVectors bool) (*runtimeEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	paths := config.GetPaths(cfg)
	dbCfg := db.DefaultConfig(paths.Database)
	dbCfg.SeedSettings = config.EnvOverrides()

	database, err := db.New(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	env := &runtimeEnv{cfg: cfg, database: database}
	env.provider = embedding.NewDefaultRouter(database.Settings())

	if withVectors {
		store, err := vector.NewChromemStore(vector.Config{DataDir: paths.Vectors}, env.provider)
		if err != nil {
			fmt.Printf("Warning: vector store unavailable (%v); semantic search disabled\n", err)
		} else {
			env.store = store
		}
	}

	return env, nil
}

func (e *runtimeEnv) searchService() *search.Service {
	return search.New(e.database, e.store, search.DefaultConfig())
}
