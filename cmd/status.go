package cmd

import (
	"fmt"
	"os"

	"cortex/internal/embedder"
	"cortex/internal/llm"
	"cortex/internal/store"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index and Ollama status",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath()
		if err != nil {
			return err
		}

		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			fmt.Printf("Index:  not found at %s\n", dbPath)
		} else {
			emb := embedder.NewOllamaEmbedder(flagOllama, flagModel)
			st, err := store.Open(dbPath, emb)
			if err != nil {
				return err
			}
			defer st.Close()

			count, err := st.Count(cmd.Context())
			if err != nil {
				return err
			}
			files, err := st.ListFiles()
			if err != nil {
				return err
			}
			model, _ := st.GetMeta("embedding_model")

			fmt.Printf("Index:  %s\n", dbPath)
			fmt.Printf("  Documents: %d\n", count)
			fmt.Printf("  Files:     %d\n", len(files))
			if model != "" {
				fmt.Printf("  Model:     %s\n", model)
			}
		}

		if !llm.Available(flagOllama) {
			fmt.Printf("Ollama: unreachable at %s\n", flagOllama)
			return nil
		}

		models, err := llm.ListModels(flagOllama)
		if err != nil {
			fmt.Printf("Ollama: reachable, but listing models failed: %v\n", err)
			return nil
		}
		fmt.Printf("Ollama: reachable at %s (%d models)\n", flagOllama, len(models))
		for _, m := range models {
			fmt.Printf("  %s\n", m.Name)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
