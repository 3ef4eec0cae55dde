package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client reads dashboard data. Every read degrades to an empty value on
// failure; callers never see an error.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

// Stats fetches the dashboard counters.
func (c *Client) Stats(ctx context.Context) Stats {
	var stats Stats
	if err := c.getJSON(ctx, PathStats, &stats); err != nil {
		c.logger.Warn("dashboard read failed", "path", PathStats, "error", err)
		return Stats{}
	}
	return stats
}

// ProximasColetas fetches upcoming collections.
func (c *Client) ProximasColetas(ctx context.Context) []ProximaColeta {
	return fetchList[ProximaColeta](ctx, c, PathProximasColetas)
}

// ProdutosTransportados fetches the most transported products.
func (c *Client) ProdutosTransportados(ctx context.Context) []ProdutoTransportado {
	return fetchList[ProdutoTransportado](ctx, c, PathProdutosTransportados)
}

// ClientesAtendidos fetches the most served clients.
func (c *Client) ClientesAtendidos(ctx context.Context) []ClienteAtendido {
	return fetchList[ClienteAtendido](ctx, c, PathClientesAtendidos)
}

// Atividades fetches operational activities.
func (c *Client) Atividades(ctx context.Context) []AtividadeOperacional {
	return fetchList[AtividadeOperacional](ctx, c, PathAtividades)
}

// Summary performs every read.
func (c *Client) Summary(ctx context.Context) Summary {
	return Summary{
		Stats:                 c.Stats(ctx),
		ProximasColetas:       c.ProximasColetas(ctx),
		ProdutosTransportados: c.ProdutosTransportados(ctx),
		ClientesAtendidos:     c.ClientesAtendidos(ctx),
		Atividades:            c.Atividades(ctx),
		UpdatedAt:             time.Now().UTC().Format(time.RFC3339),
	}
}

func fetchList[T any](ctx context.Context, c *Client, path string) []T {
	var items []T
	if err := c.getJSON(ctx, path, &items); err != nil {
		c.logger.Warn("dashboard read failed", "path", path, "error", err)
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
