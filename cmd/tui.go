package cmd

import (
	"fmt"
	"os"

	"cortex/internal/tui"
)

func runTUI() error {
	dbPath, err := resolveDBPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return fmt.Errorf("index not found at %s\nRun 'cortex index <path>' first to build the index", dbPath)
	}

	return tui.Run(tui.Config{
		DBPath:    dbPath,
		OllamaURL: flagOllama,
		Model:     flagModel,
		ChatModel: flagChatModel,
	})
}
