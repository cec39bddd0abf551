package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loci-labs/palace/internal/embedding"
	"github.com/loci-labs/palace/internal/models"
	"github.com/loci-labs/palace/pkg/version"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show palace health and configuration",
	Long: `Show palace health and configuration.

Reports memory counts, the active embedding provider, its model, and
whether it is currently reachable. Use this to diagnose why semantic
recall is degraded; request-level failures are logged to palace.log.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	env, err := openEnv(true)
	if err != nil {
		return err
	}
	defer env.Close()

	stats, err := env.database.GetStats()
	if err != nil {
		return fmt.Errorf("collect stats: %w", err)
	}

	release := version.Short()
	if version.IsDevBuild() {
		release += " (dev build)"
	} else if version.IsPrerelease() {
		release += " (pre-release)"
	}

	fmt.Println("PALACE STATUS")
	fmt.Println("──────────────────────────────────────────────────")
	fmt.Printf("  Version:   %s\n", release)
	fmt.Printf("  Database:  %s\n", env.database.Path())
	fmt.Printf("  Memories:  %d\n", stats.TotalMemories)

	if env.store != nil {
		if count, err := env.store.Count(cmd.Context()); err == nil {
			fmt.Printf("  Indexed:   %d\n", count)
		}
	}

	provider := env.database.GetSetting(models.SettingEmbeddingProvider)
	if provider == "" {
		provider = embedding.ProviderOllama
	}

	fmt.Println()
	fmt.Printf("  Embedding provider: %s\n", provider)
	fmt.Printf("  Embedding model:    %s\n", env.provider.ActiveModel())

	if env.provider.IsAvailable(cmd.Context()) {
		fmt.Println("  Availability:       ok")
	} else {
		fmt.Println("  Availability:       unreachable")
		switch provider {
		case embedding.ProviderOpenAI:
			fmt.Println("\n  Check openai_api_key and openai_base_url, see palace.log for details.")
		default:
			fmt.Println("\n  Is Ollama running? Check ollama_base_url, see palace.log for details.")
		}
	}

	return nil
}
