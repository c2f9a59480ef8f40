package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"cortex/internal/embedder"
	"cortex/internal/index"
	"cortex/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagWorkers int
	flagForce   bool
)

var indexCmd = &cobra.Command{
	Use:   "index <path>",
	Short: "Index a codebase for search",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		// Default DB path is <project>/.cortex/index.db.
		dbPath := flagDB
		if dbPath == "" {
			dbPath = filepath.Join(root, ".cortex", "index.db")
		}

		// Ensure the database directory exists.
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return fmt.Errorf("create db directory: %w", err)
		}

		emb := embedder.NewOllamaEmbedder(flagOllama, flagModel)
		st, err := store.Open(dbPath, emb)
		if err != nil {
			return err
		}
		defer st.Close()

		if flagForce {
			if err := st.Reset(); err != nil {
				return fmt.Errorf("reset index: %w", err)
			}
		}

		// A model switch invalidates all stored vectors.
		if prev, err := st.GetMeta("embedding_model"); err == nil && prev != "" && prev != flagModel {
			fmt.Printf("Embedding model changed (%s -> %s), rebuilding index\n", prev, flagModel)
			if err := st.Reset(); err != nil {
				return fmt.Errorf("reset index: %w", err)
			}
		}
		if err := st.SetMeta("embedding_model", flagModel); err != nil {
			return err
		}

		idx := index.New(st, st, index.Config{Workers: flagWorkers})

		fmt.Printf("Indexing %s...\n", root)
		start := time.Now()

		stats, err := idx.Index(cmd.Context(), root)
		elapsed := time.Since(start)

		if stats != nil {
			fmt.Printf("\nDone in %s\n", elapsed.Round(time.Millisecond))
			fmt.Printf("  Files:   %d total, %d indexed, %d skipped, %d failed\n",
				stats.FilesTotal, stats.FilesIndexed, stats.FilesSkipped, stats.FilesFailed)
			fmt.Printf("  Chunks:  %d (%d structural, %d whole-file)\n",
				stats.ChunksTotal, stats.ASTChunks, stats.SimpleChunks)
		}

		return err
	},
}

func init() {
	indexCmd.Flags().IntVar(&flagWorkers, "workers", runtime.NumCPU(), "parallel workers")
	indexCmd.Flags().BoolVar(&flagForce, "force", false, "discard the existing index and rebuild from scratch")
	rootCmd.AddCommand(indexCmd)
}
