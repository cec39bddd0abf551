package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored memories",
	Long: `List stored memories, most recently updated first.

Shows each memory's title, ID, tags, and when it was last updated.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 50, "maximum number of memories to show")
}

func runList(cmd *cobra.Command, args []string) error {
	env, err := openEnv(false)
	if err != nil {
		return err
	}
	defer env.Close()

	memories, err := env.database.ListMemories(listLimit, 0)
	if err != nil {
		return fmt.Errorf("list memories: %w", err)
	}

	if len(memories) == 0 {
		fmt.Println("No memories stored.")
		fmt.Println("\nUse 'palace remember <title> --content <text>' to store one.")
		return nil
	}

	total, err := env.database.CountMemories()
	if err != nil {
		total = int64(len(memories))
	}

	fmt.Printf("MEMORIES (%d of %d)\n", len(memories), total)
	fmt.Println("──────────────────────────────────────────────────")

	for _, memory := range memories {
		fmt.Printf("  %s  (%s)\n", memory.Title, memory.ID)
		if tags := memory.GetTags(); len(tags) > 0 {
			fmt.Printf("    tags: %s\n", strings.Join(tags, ", "))
		}
		fmt.Printf("    Updated: %s\n", formatTimeSince(memory.UpdatedAt))
		fmt.Println()
	}

	return nil
}

// formatTimeSince formats a duration since a time in a human-readable way.
func formatTimeSince(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("2006-01-02")
	}
}
