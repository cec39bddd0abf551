package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loci-labs/palace/internal/models"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change settings",
	Long: `Inspect and change persisted settings.

Settings live in the database and take effect on the next command;
embedding settings are re-read on every embedding call, so switching
providers never requires a restart.

Common keys:
  embedding_provider      "ollama" (default) or "openai"
  embedding_model         remote model name
  openai_api_key          API key for the remote provider
  openai_base_url         OpenAI-compatible endpoint (Azure URLs work)
  ollama_base_url         local Ollama address
  ollama_embedding_model  local model name`,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a setting value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings",
	RunE:  runConfigList,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	env, err := openEnv(false)
	if err != nil {
		return err
	}
	defer env.Close()

	value := env.database.GetSetting(args[0])
	if value == "" {
		return fmt.Errorf("setting %q is not set", args[0])
	}
	fmt.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	env, err := openEnv(false)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.database.SetSetting(key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	fmt.Printf("Set %s = %s\n", key, displayValue(key, value))
	return nil
}

func runConfigList(cmd *cobra.Command, args []string) error {
	env, err := openEnv(false)
	if err != nil {
		return err
	}
	defer env.Close()

	settings, err := env.database.ListSettings()
	if err != nil {
		return fmt.Errorf("list settings: %w", err)
	}

	for _, setting := range settings {
		fmt.Printf("%s = %s\n", setting.Key, displayValue(setting.Key, setting.Value))
	}
	return nil
}

// displayValue redacts secrets in command output.
func displayValue(key, value string) string {
	if key != models.SettingOpenAIAPIKey || value == "" {
		return value
	}
	if len(value) <= 8 {
		return strings.Repeat("*", len(value))
	}
	return value[:4] + strings.Repeat("*", 4) + value[len(value)-4:]
}
