// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes daylink tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hanlee/daylink/internal/auth"
	"github.com/hanlee/daylink/internal/dateutil"
	"github.com/hanlee/daylink/internal/diaryservice"
	"github.com/hanlee/daylink/internal/links"
	"github.com/hanlee/daylink/internal/search"
)

// Server wraps the MCP server with daylink tools. Tool calls act as the
// configured user; MCP clients carry no identity of their own.
type Server struct {
	mcp    *server.MCPServer
	svc    *diaryservice.Service
	userID string
}

// New creates a new MCP server with all daylink tools registered.
func New(svc *diaryservice.Service, userID string) *Server {
	s := &Server{svc: svc, userID: userID}

	s.mcp = server.NewMCPServer(
		"Daylink",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("append_log",
		mcp.WithDescription("Append a diary log entry to a date. A #YYYY-MM-DD tag in the "+
			"content links the entry to that date; the first tag wins."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Date key in YYYY-MM-DD form")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Entry text")),
	), s.appendLog)

	s.mcp.AddTool(mcp.NewTool("list_day",
		mcp.WithDescription("List a date's log entries in creation order plus its todos."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Date key in YYYY-MM-DD form")),
	), s.listDay)

	s.mcp.AddTool(mcp.NewTool("search_month",
		mcp.WithDescription("Case-insensitive substring search over one month's log entries. "+
			"Returns the matching date keys."),
		mcp.WithString("month", mcp.Required(), mcp.Description("Month in YYYY-MM form")),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search text")),
	), s.searchMonth)

	s.mcp.AddTool(mcp.NewTool("month_links",
		mcp.WithDescription("List the dates referenced by #YYYY-MM-DD tags in a month's entries, "+
			"deduplicated and sorted."),
		mcp.WithString("month", mcp.Required(), mcp.Description("Month in YYYY-MM form")),
	), s.monthLinks)

	s.mcp.AddTool(mcp.NewTool("add_todo",
		mcp.WithDescription("Add a todo to a date."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Date key in YYYY-MM-DD form")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Todo text")),
	), s.addTodo)

	s.mcp.AddTool(mcp.NewTool("toggle_todo",
		mcp.WithDescription("Flip a todo's completion state."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Todo id")),
	), s.toggleTodo)

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

func (s *Server) asUser(ctx context.Context) context.Context {
	return auth.WithUser(ctx, s.userID)
}

func (s *Server) appendLog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entry, err := s.svc.SendLog(s.asUser(ctx), date, content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(entry, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := dateutil.ParseKey(date); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("bad date %q", date)), nil
	}

	st := s.svc.Store()
	logs := st.LogsOn(date)
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].CreatedAt.Before(logs[j].CreatedAt)
	})

	out, _ := json.MarshalIndent(map[string]any{
		"date":  date,
		"logs":  logs,
		"todos": st.TodosOn(date),
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchMonth(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawMonth, err := req.RequireString("month")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	month, err := dateutil.ParseMonth(rawMonth)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("bad month %q", rawMonth)), nil
	}

	eng := search.NewEngine()
	eng.SetQuery(query)
	matched := make([]string, 0)
	for key := range eng.Matches(s.svc.Store(), month) {
		matched = append(matched, key)
	}
	sort.Strings(matched)

	out, _ := json.MarshalIndent(map[string]any{
		"month":   rawMonth,
		"query":   query,
		"matches": matched,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) monthLinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawMonth, err := req.RequireString("month")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	month, err := dateutil.ParseMonth(rawMonth)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("bad month %q", rawMonth)), nil
	}

	dates := links.MonthDates(s.svc.Store(), month)
	if dates == nil {
		dates = []string{}
	}
	out, _ := json.MarshalIndent(map[string]any{
		"month": rawMonth,
		"dates": dates,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) addTodo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	item, err := s.svc.AddTodo(s.asUser(ctx), date, content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(item, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) toggleTodo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	item, err := s.svc.ToggleTodo(s.asUser(ctx), id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(item, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
