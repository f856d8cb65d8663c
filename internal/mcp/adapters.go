package mcp

import (
	"context"

	"newsdesk/internal/domain"
)

// NewsReader exposes read and refresh operations over the ranked stream.
type NewsReader interface {
	Stream(ctx context.Context, category string, filter domain.Filter, sortBy domain.SortOption) ([]domain.Item, error)
	Refresh(ctx context.Context, category string) ([]domain.Item, error)
}

// SourceLister exposes the source catalogue.
type SourceLister interface {
	All() []domain.Source
}
