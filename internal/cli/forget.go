package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var forgetForce bool

var forgetCmd = &cobra.Command{
	Use:   "forget <id>",
	Short: "Delete a memory",
	Long: `Delete a memory by ID.

Removes the memory from both the database and the vector index.
Prompts for confirmation unless --force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runForget,
}

func init() {
	forgetCmd.Flags().BoolVarP(&forgetForce, "force", "f", false, "skip confirmation prompt")
}

func runForget(cmd *cobra.Command, args []string) error {
	id := args[0]

	env, err := openEnv(true)
	if err != nil {
		return err
	}
	defer env.Close()

	memory, err := env.database.GetMemory(id)
	if err != nil {
		return fmt.Errorf("memory %s not found", id)
	}

	if !forgetForce {
		fmt.Printf("Forget %q (%s)? [y/N]: ", memory.Title, memory.ID)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := env.database.DeleteMemory(memory.ID); err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}

	if env.store != nil {
		if err := env.store.Delete(cmd.Context(), memory.ID); err != nil {
			// Vector entry may never have existed; not fatal.
			fmt.Printf("Warning: could not remove vector entry: %v\n", err)
		}
	}

	fmt.Printf("Forgot %q.\n", memory.Title)
	return nil
}
