package mcp

import (
	"context"
	"encoding/json"
	"time"

	"newsdesk/internal/domain"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type stubNewsReader struct {
	items []domain.Item

	lastStreamCategory string
	lastStreamFilter   domain.Filter
	lastStreamSort     domain.SortOption

	lastRefreshCategory string
	refreshCalls        int
}

func (s *stubNewsReader) Stream(ctx context.Context, category string, filter domain.Filter, sortBy domain.SortOption) ([]domain.Item, error) {
	s.lastStreamCategory = category
	s.lastStreamFilter = filter
	s.lastStreamSort = sortBy
	return append([]domain.Item(nil), s.items...), nil
}

func (s *stubNewsReader) Refresh(ctx context.Context, category string) ([]domain.Item, error) {
	s.refreshCalls++
	s.lastRefreshCategory = category
	return append([]domain.Item(nil), s.items...), nil
}

type stubSourceLister struct {
	sources []domain.Source
}

func (s *stubSourceLister) All() []domain.Source {
	return append([]domain.Source(nil), s.sources...)
}

func testServer() (*sdkmcp.Server, *stubNewsReader, *stubSourceLister) {
	news := &stubNewsReader{
		items: []domain.Item{
			{
				ID:          "wire-1",
				Title:       "Fed signals rate cut",
				Description: "Dovish remarks lift risk assets",
				SourceID:    "wire",
				SourceName:  "Wire",
				Category:    domain.CategoryForex,
				PublishedAt: time.Unix(1700000000, 0).UTC(),
				ImpactScore: 72,
				Impact:      domain.ImpactHigh,
			},
			{
				ID:          "crypto-2",
				Title:       "BTC breaks out",
				SourceID:    "crypto",
				SourceName:  "Crypto Desk",
				Category:    domain.CategoryCrypto,
				PublishedAt: time.Unix(1700000100, 0).UTC(),
				ImpactScore: 55,
				Impact:      domain.ImpactMedium,
			},
		},
	}
	sources := &stubSourceLister{
		sources: []domain.Source{
			{ID: "wire", Name: "Wire", Priority: 1, Credibility: 18, Enabled: true, Categories: []string{domain.CategoryForex}},
		},
	}

	srv := NewServer(nil, news, sources, ServerConfig{RequestTimeout: time.Second})
	return srv, news, sources
}

func connectInMemory(ctx context.Context, srv *sdkmcp.Server) (*sdkmcp.ClientSession, context.CancelFunc, error) {
	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	runCtx, cancel := context.WithCancel(ctx)
	go func() { _ = srv.Run(runCtx, serverTransport) }()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "mcp-test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return session, cancel, nil
}

func decodeResourceJSON(result *sdkmcp.ReadResourceResult, out any) error {
	if len(result.Contents) == 0 {
		return nil
	}
	return json.Unmarshal([]byte(result.Contents[0].Text), out)
}
