package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"cortex/internal/embedder"
	"cortex/internal/llm"
	"cortex/internal/rag"
	"cortex/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagK       int
	flagTimeout time.Duration
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a one-shot question about the indexed codebase",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")

		dbPath, err := resolveDBPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return fmt.Errorf("index not found at %s\nRun 'cortex index <path>' first to build the index", dbPath)
		}

		emb := embedder.NewOllamaEmbedder(flagOllama, flagModel)
		st, err := store.Open(dbPath, emb)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		if flagTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, flagTimeout)
			defer cancel()
		}

		hits, err := rag.Retrieve(ctx, st, question, flagK)
		if err != nil {
			var ge *store.GatewayError
			if !errors.As(err, &ge) {
				return err
			}
			// Degrade to an uncontexted answer rather than failing outright.
			fmt.Fprintf(os.Stderr, "Warning: %v, answering without code context\n", err)
			hits = nil
		}

		contextText, sources := rag.AssembleContext(hits)
		msgs := rag.BuildMessages(contextText, nil, question)

		chat := llm.NewOllamaChat(flagOllama, flagChatModel)
		answer, err := chat.Generate(ctx, msgs)
		if err != nil {
			return fmt.Errorf("generate answer: %w", err)
		}

		fmt.Println(answer)

		if len(sources) > 0 {
			fmt.Println("\nSources:")
			for _, s := range sources {
				line := "  " + s.Filename
				if s.Name != "" {
					line += "::" + s.Name
				}
				if s.Lines != "" {
					line += " (" + s.Lines + ")"
				}
				fmt.Println(line)
			}
		}

		return nil
	},
}

func init() {
	askCmd.Flags().IntVar(&flagK, "k", 10, "number of chunks to retrieve")
	askCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "overall timeout (0 = none)")
	rootCmd.AddCommand(askCmd)
}
