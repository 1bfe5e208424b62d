package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/dagaz/internal/journal"
	"github.com/starford/dagaz/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	_, store := testutil.TestJournal(t)
	db := testutil.TestDB(t)
	return New(journal.NewService(store, db, 5))
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so we invoke the
	// handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "add_entry":
		result, err = srv.addEntry(ctx, req)
	case "read_entry":
		result, err = srv.readEntry(ctx, req)
	case "search_entries":
		result, err = srv.searchEntries(ctx, req)
	case "list_day":
		result, err = srv.listDay(ctx, req)
	case "get_stats":
		result, err = srv.getStats(ctx, req)
	case "get_entry_contract":
		result, err = srv.getEntryContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestAddAndReadEntry(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "add_entry", map[string]interface{}{
		"content": "wrote some Go today",
		"title":   "Dev log",
		"mood":    "happy",
		"tags":    "go, coding",
		"date":    "2026-08-28",
	})
	if r.IsError {
		t.Fatalf("add_entry failed: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), "created entry 1") {
		t.Errorf("add result = %q", resultText(r))
	}

	r = callTool(t, srv, "read_entry", map[string]interface{}{"id": 1})
	if r.IsError {
		t.Fatalf("read_entry failed: %s", resultText(r))
	}
	text := resultText(r)
	if !strings.Contains(text, "Dev log") || !strings.Contains(text, "2026-08-28") {
		t.Errorf("read result = %q", text)
	}
	if !strings.Contains(text, "coding") {
		t.Errorf("tags missing from %q", text)
	}
}

func TestAddEntry_EmptyContent(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "add_entry", map[string]interface{}{"content": "   "})
	if !r.IsError {
		t.Error("expected error for empty content")
	}
}

func TestAddEntry_BadDate(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "add_entry", map[string]interface{}{
		"content": "x",
		"date":    "sometime last week",
	})
	if !r.IsError {
		t.Error("expected error for unparseable date")
	}
}

func TestReadEntryMissing(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "read_entry", map[string]interface{}{"id": 99})
	if !r.IsError {
		t.Error("expected error for missing entry")
	}
}

func TestSearchEntries(t *testing.T) {
	srv := testServer(t)
	_ = callTool(t, srv, "add_entry", map[string]interface{}{
		"content": "the quick brown fox",
		"date":    "2026-08-28",
	})

	r := callTool(t, srv, "search_entries", map[string]interface{}{"query": "fox"})
	if r.IsError {
		t.Fatalf("search failed: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), `"id": 1`) {
		t.Errorf("search result = %q", resultText(r))
	}
}

func TestListDay(t *testing.T) {
	srv := testServer(t)
	_ = callTool(t, srv, "add_entry", map[string]interface{}{
		"content": "on the day",
		"date":    "2026-08-27",
	})

	r := callTool(t, srv, "list_day", map[string]interface{}{"day": "2026-08-27"})
	if !strings.Contains(resultText(r), "2026-08-27") {
		t.Errorf("list_day result = %q", resultText(r))
	}

	r = callTool(t, srv, "list_day", map[string]interface{}{"day": "2026-01-01"})
	if resultText(r) != "no entries" {
		t.Errorf("empty day result = %q", resultText(r))
	}
}

func TestGetStats(t *testing.T) {
	srv := testServer(t)
	_ = callTool(t, srv, "add_entry", map[string]interface{}{"content": "a b c", "mood": "calm"})

	r := callTool(t, srv, "get_stats", map[string]interface{}{})
	if r.IsError {
		t.Fatalf("get_stats failed: %s", resultText(r))
	}
	text := resultText(r)
	if !strings.Contains(text, `"total_entries": 1`) {
		t.Errorf("stats = %q", text)
	}
	if !strings.Contains(text, `"calm": 100`) {
		t.Errorf("moods missing from %q", text)
	}
}

func TestGetEntryContract(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "get_entry_contract", map[string]interface{}{})
	if resultText(r) != EntryFormatContract {
		t.Error("contract tool should return the canonical contract text")
	}
}
