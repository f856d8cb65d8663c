package fetch

import (
	"bytes"
	"fmt"

	"github.com/mmcdole/gofeed"

	"newsdesk/internal/domain"
)

// FeedParser reads RSS/Atom documents into flat records.
type FeedParser struct{}

func (FeedParser) ParsePayload(body []byte) ([]domain.RawRecord, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("feed payload: %w", err)
	}

	records := make([]domain.RawRecord, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || item.Title == "" {
			continue
		}
		rec := domain.RawRecord{
			ProviderID:  item.GUID,
			Title:       item.Title,
			Description: item.Description,
			URL:         item.Link,
		}
		if rec.ProviderID == "" {
			rec.ProviderID = item.Link
		}
		if item.PublishedParsed != nil {
			rec.PublishedAt = item.PublishedParsed.UTC()
		} else if item.UpdatedParsed != nil {
			rec.PublishedAt = item.UpdatedParsed.UTC()
		}
		if item.Image != nil {
			rec.ImageURL = item.Image.URL
		}
		if len(item.Authors) > 0 && item.Authors[0] != nil {
			rec.Author = item.Authors[0].Name
		}
		records = append(records, rec)
	}
	return records, nil
}
