package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	flagDB        string
	flagOllama    string
	flagModel     string
	flagChatModel string
)

var rootCmd = &cobra.Command{
	Use:   "cortex",
	Short: "Local codebase search and chat powered by AST-aware RAG",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path (default <project>/.cortex/index.db)")
	rootCmd.PersistentFlags().StringVar(&flagOllama, "ollama", "http://localhost:11434", "ollama base URL")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "nomic-embed-text", "embedding model")
	rootCmd.PersistentFlags().StringVar(&flagChatModel, "chat-model", "qwen3:8b", "generative model for chat")
}

// resolveDBPath returns the --db flag or the default under the working directory.
func resolveDBPath() (string, error) {
	if flagDB != "" {
		return flagDB, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, ".cortex", "index.db"), nil
}
