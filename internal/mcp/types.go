package mcp

// ToolDefinition describes a tool registered with the MCP server.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
}

type ListActivitiesParams struct {
	Tab string `json:"tab,omitempty"`
}

type MarkActivityReadParams struct {
	ID string `json:"id"`
}

type ListActivityHistoryParams struct {
	UnreadOnly bool   `json:"unread_only,omitempty"`
	Type       string `json:"type,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

type SearchActivityHistoryParams struct {
	Query string `json:"query"`
	ListActivityHistoryParams
}

type GetNotificationBellParams struct {
	Preview int `json:"preview,omitempty"`
}

type PingResult struct {
	Message string `json:"message"`
}

type UnreadCountResult struct {
	UnreadCount int `json:"unread_count"`
}
