package mcp

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        "ping",
			Description: "Check that the server is reachable",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},

		// Live feed
		{
			Name:        "list_activities",
			Description: "List the live activity feed, newest first",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"tab": map[string]any{
						"type":        "string",
						"description": "Which tab to show (defaults to all)",
						"enum":        []string{"all", "unread"},
					},
				},
			},
		},
		{
			Name:        "mark_activity_read",
			Description: "Mark one activity as read. Unknown ids are ignored",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":        "string",
						"description": "Activity ID",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "mark_all_activities_read",
			Description: "Mark every activity in the live feed as read",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        "get_notification_bell",
			Description: "Get the unread badge and a short preview of recent activity",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"preview": map[string]any{
						"type":        "integer",
						"description": "Number of entries to preview (default 5)",
					},
				},
			},
		},
		{
			Name:        "list_deliveries",
			Description: "List deliveries currently in progress",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},

		// History and dashboard
		{
			Name:        "list_activity_history",
			Description: "List persisted activities, including entries evicted from the live feed",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"unread_only": map[string]any{
						"type":        "boolean",
						"description": "Only return unread activities",
					},
					"type": map[string]any{
						"type":        "string",
						"description": "Filter by activity type",
						"enum": []string{
							"pesagem_criada",
							"pesagem_atualizada",
							"coleta_criada",
							"coleta_atualizada",
							"coleta_status_alterado",
							"usuario_login",
						},
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of results",
					},
					"offset": map[string]any{
						"type":        "integer",
						"description": "Offset for pagination",
					},
				},
			},
		},
		{
			Name:        "search_activity_history",
			Description: "Full-text search over persisted activity messages",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Words to match; each is treated as a prefix",
					},
					"unread_only": map[string]any{
						"type":        "boolean",
						"description": "Only return unread activities",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of results",
					},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        "get_dashboard_summary",
			Description: "Get the latest polled dashboard counters and lists",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	}
}
