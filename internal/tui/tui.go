// Package tui implements the interactive chat interface.
package tui

import (
	"context"

	"cortex/internal/embedder"
	"cortex/internal/llm"
	"cortex/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Config holds configuration passed from the CLI layer.
type Config struct {
	DBPath    string
	OllamaURL string
	Model     string
	ChatModel string
	K         int
}

// Model is the top-level Bubble Tea model.
type Model struct {
	chat chatModel
	err  error
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}
	return m.chat.View()
}

// Run starts the chat TUI against an existing index.
func Run(cfg Config) error {
	emb := embedder.NewOllamaEmbedder(cfg.OllamaURL, cfg.Model)
	st, err := store.Open(cfg.DBPath, emb)
	if err != nil {
		return err
	}
	defer st.Close()

	count, err := st.Count(context.Background())
	if err != nil {
		return err
	}

	k := cfg.K
	if k <= 0 {
		k = 10
	}

	chat := newChatModel(st, llm.NewOllamaChat(cfg.OllamaURL, cfg.ChatModel), count, k)
	model := Model{chat: chat}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
