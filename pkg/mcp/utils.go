package mcp

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/unowned-ai/moodlog/pkg/summaries"
)

// now is swapped in tests.
var now = time.Now

// todayUTC is the summary date used when a tool call omits one.
func todayUTC() string {
	return now().UTC().Format(summaries.DateLayout)
}

// jsonResult serializes v as the tool's text content.
func jsonResult(v any, what string) *mcp.CallToolResult {
	raw, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize %s to JSON: %v", what, err))
	}
	return mcp.NewToolResultText(string(raw))
}

// stringList reads a list argument given either as a JSON array of strings or
// as a comma-separated string. Blank items are dropped.
func stringList(request mcp.CallToolRequest, key string) []string {
	var raw []string
	if s, ok := request.GetArguments()[key].(string); ok {
		raw = strings.Split(s, ",")
	} else {
		raw = request.GetStringSlice(key, nil)
	}

	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if t := strings.TrimSpace(item); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// requireNonEmpty returns the trimmed string argument or a tool error naming it.
func requireNonEmpty(request mcp.CallToolRequest, key string) (string, *mcp.CallToolResult) {
	v, err := request.RequireString(key)
	if err != nil || strings.TrimSpace(v) == "" {
		return "", mcp.NewToolResultError(fmt.Sprintf("'%s' parameter is required.", key))
	}
	return strings.TrimSpace(v), nil
}
