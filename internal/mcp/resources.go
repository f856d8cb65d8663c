package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"newsdesk/internal/domain"
)

func registerResources(server *mcp.Server, news NewsReader, sources SourceLister) {
	server.AddResource(&mcp.Resource{
		URI:         "news://categories",
		Name:        "categories",
		Description: "List of categories supported by the aggregator",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		_ = ctx
		return jsonResource(req.Params.URI, supportedCategories)
	})

	server.AddResource(&mcp.Resource{
		URI:         "news://sources",
		Name:        "sources",
		Description: "Configured source descriptors",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		_ = ctx
		if sources == nil {
			return nil, fmt.Errorf("source registry unavailable")
		}
		return jsonResource(req.Params.URI, sourcesListOutput{Sources: sources.All()})
	})

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "news://stream/{category}{?range,limit}",
		Name:        "stream-by-category",
		Description: "Ranked news stream for a category; optional range and limit query params",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if news == nil {
			return nil, fmt.Errorf("news service unavailable")
		}

		parsed, err := url.Parse(req.Params.URI)
		if err != nil {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		if parsed.Scheme != "news" || parsed.Host != "stream" {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}

		category, err := normalizeCategory(strings.Trim(strings.TrimSpace(parsed.Path), "/"))
		if err != nil {
			return nil, err
		}
		tr, err := normalizeRange(parsed.Query().Get("range"))
		if err != nil {
			return nil, err
		}

		limit := defaultItemLimit
		if rawLimit := strings.TrimSpace(parsed.Query().Get("limit")); rawLimit != "" {
			n, err := strconv.Atoi(rawLimit)
			if err != nil {
				return nil, fmt.Errorf("invalid limit: %s", rawLimit)
			}
			limit = normalizeItemLimit(n)
		}

		items, err := news.Stream(ctx, category, domain.Filter{TimeRange: tr}, domain.SortImpact)
		if err != nil {
			return nil, err
		}
		return jsonResource(req.Params.URI, newsListOutput{Items: capItems(items, limit)})
	})
}

func jsonResource(uri string, payload any) (*mcp.ReadResourceResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(body),
		}},
	}, nil
}
