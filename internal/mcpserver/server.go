// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Dagaz journal tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/dagaz/internal/journal"
	"github.com/starford/dagaz/internal/models"
)

// Server wraps the MCP server with Dagaz tools.
type Server struct {
	mcp *server.MCPServer
	svc *journal.Service
}

// New creates a new MCP server with all Dagaz tools registered.
func New(svc *journal.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Dagaz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("add_entry",
		mcp.WithDescription("Add a journal entry. Content MUST follow the entry format "+
			"contract; read it first via the get_entry_contract tool or the "+
			"dagaz://entry-format resource."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Entry body (may contain simple inline HTML)")),
		mcp.WithString("title", mcp.Description("Optional short title")),
		mcp.WithString("mood", mcp.Description("Optional mood label, e.g. happy, sad, calm")),
		mcp.WithString("tags", mcp.Description("Optional comma-separated tags")),
		mcp.WithString("date", mcp.Description("Optional calendar day, ISO form 2006-01-02 (defaults to today)")),
	), s.addEntry)

	s.mcp.AddTool(mcp.NewTool("read_entry",
		mcp.WithDescription("Read one journal entry by id."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Entry id")),
	), s.readEntry)

	s.mcp.AddTool(mcp.NewTool("search_entries",
		mcp.WithDescription("Search journal entries by title, content, and tags."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchEntries)

	s.mcp.AddTool(mcp.NewTool("list_day",
		mcp.WithDescription("List all entries recorded on one calendar day."),
		mcp.WithString("day", mcp.Required(), mcp.Description("Calendar day, ISO form 2006-01-02")),
	), s.listDay)

	s.mcp.AddTool(mcp.NewTool("get_stats",
		mcp.WithDescription("Get the full dashboard statistics: streaks, consistency, "+
			"mood distribution, word counts, weekly goal progress, achievements, insights."),
	), s.getStats)

	s.mcp.AddTool(mcp.NewTool("get_entry_contract",
		mcp.WithDescription("Returns the canonical Dagaz entry format contract. "+
			"Call this before adding entries to ensure correct structure."),
	), s.getEntryContract)

	// Resource: entry format contract.
	s.mcp.AddResource(
		mcp.NewResource("dagaz://entry-format", "Entry Format Contract",
			mcp.WithResourceDescription("Canonical journal entry shape that MCP clients must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readEntryFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) addEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	p := journal.EntryParams{
		Content: content,
		Title:   req.GetString("title", ""),
		Mood:    req.GetString("mood", ""),
	}
	if tags := req.GetString("tags", ""); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				p.Tags = append(p.Tags, t)
			}
		}
	}
	if dayStr := req.GetString("date", ""); dayStr != "" {
		day := models.ParseDay(dayStr)
		if day.IsZero() {
			return mcp.NewToolResultError(fmt.Sprintf("invalid date: %s", dayStr)), nil
		}
		p.Date = day
	}

	entry, err := s.svc.Create(ctx, p)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created entry %d (%s)", entry.ID, entry.Date)), nil
}

func (s *Server) readEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	entry, err := s.svc.Get(ctx, int64(id))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: entry %d", id)), nil
	}
	out, _ := json.MarshalIndent(entry, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchEntries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dayStr, err := req.RequireString("day")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	day := models.ParseDay(dayStr)
	if day.IsZero() {
		return mcp.NewToolResultError(fmt.Sprintf("invalid day: %s", dayStr)), nil
	}
	items, err := s.svc.EntriesOn(ctx, day)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(items) == 0 {
		return mcp.NewToolResultText("no entries"), nil
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dashboard, err := s.svc.Dashboard(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(dashboard, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getEntryContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(EntryFormatContract), nil
}

func (s *Server) readEntryFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "dagaz://entry-format",
			MIMEType: "text/markdown",
			Text:     EntryFormatContract,
		},
	}, nil
}
