package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"newsdesk/internal/domain"
)

func registerTools(server *mcp.Server, news NewsReader, sources SourceLister) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "news_list",
		Description: "Get the ranked news stream for a category with optional filters",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in newsListInput) (*mcp.CallToolResult, newsListOutput, error) {
		if news == nil {
			return nil, newsListOutput{}, fmt.Errorf("news service unavailable")
		}
		category, err := normalizeCategory(in.Category)
		if err != nil {
			return nil, newsListOutput{}, err
		}
		filter, err := normalizeListFilter(in)
		if err != nil {
			return nil, newsListOutput{}, err
		}
		items, err := news.Stream(ctx, category, filter, domain.SortImpact)
		if err != nil {
			return nil, newsListOutput{}, err
		}
		return nil, newsListOutput{Items: capItems(items, normalizeItemLimit(in.Limit))}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "news_search",
		Description: "Search news titles and descriptions, ranked by impact",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in newsSearchInput) (*mcp.CallToolResult, newsSearchOutput, error) {
		if news == nil {
			return nil, newsSearchOutput{}, fmt.Errorf("news service unavailable")
		}
		query := strings.TrimSpace(in.Query)
		if query == "" {
			return nil, newsSearchOutput{}, fmt.Errorf("query is required")
		}
		category, err := normalizeCategory(in.Category)
		if err != nil {
			return nil, newsSearchOutput{}, err
		}
		items, err := news.Stream(ctx, category, domain.Filter{Search: query}, domain.SortImpact)
		if err != nil {
			return nil, newsSearchOutput{}, err
		}
		return nil, newsSearchOutput{Items: capItems(items, normalizeItemLimit(in.Limit))}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "sources_list",
		Description: "List configured news sources and their descriptors",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ sourcesListInput) (*mcp.CallToolResult, sourcesListOutput, error) {
		if sources == nil {
			return nil, sourcesListOutput{}, fmt.Errorf("source registry unavailable")
		}
		return nil, sourcesListOutput{Sources: sources.All()}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "news_refresh",
		Description: "Force a re-aggregation of the stream for a category",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in newsRefreshInput) (*mcp.CallToolResult, newsRefreshOutput, error) {
		if news == nil {
			return nil, newsRefreshOutput{}, fmt.Errorf("news service unavailable")
		}
		category, err := normalizeCategory(in.Category)
		if err != nil {
			return nil, newsRefreshOutput{}, err
		}
		items, err := news.Refresh(ctx, category)
		if err != nil {
			return nil, newsRefreshOutput{}, err
		}
		return nil, newsRefreshOutput{Category: category, Count: len(items)}, nil
	})
}
