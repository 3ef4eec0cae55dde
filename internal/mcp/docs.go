package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `painel exposes the back-office notification feed of a logistics company.

- The live feed holds the 100 most recent activities, newest first. Reading it is cheap: use list_activities or get_notification_bell.
- Marking read (mark_activity_read / mark_all_activities_read) updates the feed and every connected browser.
- list_activity_history reads the persisted log, which keeps older entries.
- list_deliveries shows deliveries in progress as last pushed by the event source.
- get_dashboard_summary returns the latest polled dashboard figures; zero values mean no data yet.

Docs: painel://docs/index`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "painel://docs/index",
		Name:        "docs_index",
		Title:       "painel docs index",
		Description: "Activity types, feed semantics and delivery statuses.",
		Content: `# painel

## Activity types

| type | meaning |
|------|---------|
| ` + "`pesagem_criada`" + ` | weighing created |
| ` + "`pesagem_atualizada`" + ` | weighing updated |
| ` + "`coleta_criada`" + ` | collection created |
| ` + "`coleta_atualizada`" + ` | collection updated |
| ` + "`coleta_status_alterado`" + ` | collection status changed |
| ` + "`usuario_login`" + ` | operator logged in |

## Feed

- Capacity 100; the oldest entry is evicted when a new one arrives.
- Badge shows the unread count, capped at "9+".
- Unknown ids passed to mark_activity_read are ignored.

## Delivery statuses

` + "`carregando`" + `, ` + "`em_transito`" + `, ` + "`descarregando`" + `, ` + "`entregue`" + `. Progress is 0-100 and display only.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
