package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loci-labs/palace/internal/models"
)

var (
	rememberContent string
	rememberTags    []string
	rememberStdin   bool
)

var rememberCmd = &cobra.Command{
	Use:   "remember <title>",
	Short: "Store a new memory",
	Long: `Store a new memory with a title, content, and optional tags.

Content can be passed with --content or piped on stdin with --stdin.
The memory is written to the database immediately and embedded for
semantic search; if the embedding provider is unreachable the memory
is still stored and can be indexed later with 'palace reindex'.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemember,
}

func init() {
	rememberCmd.Flags().StringVarP(&rememberContent, "content", "c", "", "memory content")
	rememberCmd.Flags().StringSliceVarP(&rememberTags, "tags", "t", nil, "comma-separated tags")
	rememberCmd.Flags().BoolVar(&rememberStdin, "stdin", false, "read content from stdin")
}

func runRemember(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(args[0])
	if title == "" {
		return fmt.Errorf("title must not be empty")
	}

	content := rememberContent
	if rememberStdin {
		data, err := readStdin()
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		content = data
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content must not be empty (use --content or --stdin)")
	}

	env, err := openEnv(true)
	if err != nil {
		return err
	}
	defer env.Close()

	memory := &models.Memory{
		Title:   title,
		Content: content,
	}
	memory.SetTags(rememberTags)

	if err := env.database.CreateMemory(memory); err != nil {
		return fmt.Errorf("store memory: %w", err)
	}

	fmt.Printf("Remembered %q (%s)\n", memory.Title, memory.ID)

	// Index immediately when possible; reindex picks up anything missed.
	if env.store != nil {
		hash, err := env.store.AddMemory(cmd.Context(), memory)
		if err != nil {
			fmt.Println("Embedding unavailable; run 'palace reindex' once the provider is reachable.")
			return nil
		}
		if err := env.database.UpdateContentHash(memory.ID, hash); err != nil {
			return fmt.Errorf("record content hash: %w", err)
		}
		fmt.Println("Indexed for semantic recall.")
	}

	return nil
}

func readStdin() (string, error) {
	var sb strings.Builder
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		sb.WriteString(scanner.Text())
		sb.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}
