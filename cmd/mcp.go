package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"cortex/internal/embedder"
	"cortex/internal/rag"
	"cortex/internal/store"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server exposing codebase search tools",
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
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
		return fmt.Errorf("open index: %w", err)
	}
	defer st.Close()

	s := mcpserver.NewMCPServer("cortex", "1.0.0", mcpserver.WithToolCapabilities(false))

	s.AddTool(searchCodebaseTool(), makeSearchHandler(st))
	s.AddTool(listIndexedFilesTool(), makeListFilesHandler(st))
	s.AddTool(indexStatusTool(), makeStatusHandler(st))

	return mcpserver.ServeStdio(s)
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// --- Tool schema builders ---

var readOnlyAnnotation = mcp.ToolAnnotation{
	ReadOnlyHint:    mcp.ToBoolPtr(true),
	DestructiveHint: mcp.ToBoolPtr(false),
	IdempotentHint:  mcp.ToBoolPtr(true),
	OpenWorldHint:   mcp.ToBoolPtr(false),
}

func searchCodebaseTool() mcp.Tool {
	return mcp.NewTool("search_codebase",
		mcp.WithDescription("Semantically search the indexed codebase using vector similarity. Returns relevant code chunks with file paths and line numbers."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Natural language or keyword query to search the codebase"),
		),
		mcp.WithNumber("k",
			mcp.Description("Maximum number of chunks to return (default 10)"),
		),
	)
}

func listIndexedFilesTool() mcp.Tool {
	return mcp.NewTool("list_indexed_files",
		mcp.WithDescription("List all files in the index with their content hashes and index timestamps."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
	)
}

func indexStatusTool() mcp.Tool {
	return mcp.NewTool("index_status",
		mcp.WithDescription("Report the number of indexed documents and files, and the embedding model in use."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
	)
}

// --- Handler factories ---

func makeSearchHandler(st *store.SQLiteStore) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if query == "" {
			return mcp.NewToolResultError("query is required"), nil
		}
		k := req.GetInt("k", 10)
		if k <= 0 {
			k = 10
		}

		hits, err := rag.Retrieve(ctx, st, query, k)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}

		return mcp.NewToolResultText(formatSearchResults(query, hits)), nil
	}
}

func makeListFilesHandler(st *store.SQLiteStore) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		files, err := st.ListFiles()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list files failed: %v", err)), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "## Indexed files (%d)\n\n", len(files))
		for _, f := range files {
			fmt.Fprintf(&sb, "- **%s** (indexed %s)\n", f.Path, f.IndexedAt.Format(time.RFC3339))
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}

func makeStatusHandler(st *store.SQLiteStore) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		count, err := st.Count(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("count failed: %v", err)), nil
		}
		files, err := st.ListFiles()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list files failed: %v", err)), nil
		}
		model, _ := st.GetMeta("embedding_model")

		var sb strings.Builder
		fmt.Fprintf(&sb, "Documents: %d\nFiles: %d\n", count, len(files))
		if model != "" {
			fmt.Fprintf(&sb, "Embedding model: %s\n", model)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- Formatting helpers ---

func formatSearchResults(query string, hits []store.Hit) string {
	if len(hits) == 0 {
		return fmt.Sprintf("No results found for query: %q", query)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Search results for %q (%d chunks)\n\n", query, len(hits))

	for i, h := range hits {
		fmt.Fprintf(&sb, "### Result %d: `%s`\n\n", i+1, h.Meta.SourcePath)
		fmt.Fprintf(&sb, "**Kind:** %s  \n**Name:** %s  \n**Lines:** %d-%d  \n**Language:** %s\n\n",
			h.Meta.NodeKind, h.Meta.Name, h.Meta.StartLine, h.Meta.EndLine, h.Meta.Language)
		fmt.Fprintf(&sb, "```%s\n%s\n```\n\n", strings.ToLower(h.Meta.Language), h.Content)
	}

	return sb.String()
}
