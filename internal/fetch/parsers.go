package fetch

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"newsdesk/internal/domain"
)

// CommunityParser reads the community-board payload shape:
// data.children[].data.{id,title,created_utc,ups,num_comments,permalink}.
type CommunityParser struct{}

type communityPayload struct {
	Data struct {
		Children []struct {
			Data struct {
				ID          string  `json:"id"`
				Title       string  `json:"title"`
				SelfText    string  `json:"selftext"`
				Author      string  `json:"author"`
				CreatedUTC  float64 `json:"created_utc"`
				Ups         int     `json:"ups"`
				NumComments int     `json:"num_comments"`
				Permalink   string  `json:"permalink"`
				URL         string  `json:"url"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (CommunityParser) ParsePayload(body []byte) ([]domain.RawRecord, error) {
	var payload communityPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("community payload: %w", err)
	}

	records := make([]domain.RawRecord, 0, len(payload.Data.Children))
	for _, child := range payload.Data.Children {
		post := child.Data
		if post.Title == "" {
			continue
		}
		link := post.URL
		if post.Permalink != "" {
			link = "https://www.reddit.com" + post.Permalink
		}
		records = append(records, domain.RawRecord{
			ProviderID:  post.ID,
			Title:       post.Title,
			Description: post.SelfText,
			URL:         link,
			Author:      post.Author,
			PublishedAt: epochSeconds(int64(post.CreatedUTC)),
			Ups:         post.Ups,
			Comments:    post.NumComments,
		})
	}
	return records, nil
}

// NewswireParser reads the news-wire payload shape:
// Data[].{id,title,body,source,url,imageurl,published_on,categories,tags}.
type NewswireParser struct{}

type newswirePayload struct {
	Data []struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Body        string `json:"body"`
		Source      string `json:"source"`
		URL         string `json:"url"`
		ImageURL    string `json:"imageurl"`
		PublishedOn int64  `json:"published_on"`
		Categories  string `json:"categories"`
		Tags        string `json:"tags"`
	} `json:"Data"`
}

func (NewswireParser) ParsePayload(body []byte) ([]domain.RawRecord, error) {
	var payload newswirePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("newswire payload: %w", err)
	}

	records := make([]domain.RawRecord, 0, len(payload.Data))
	for _, article := range payload.Data {
		if article.Title == "" {
			continue
		}
		records = append(records, domain.RawRecord{
			ProviderID:  article.ID,
			Title:       article.Title,
			Description: article.Body,
			URL:         article.URL,
			ImageURL:    article.ImageURL,
			Author:      article.Source,
			PublishedAt: epochSeconds(article.PublishedOn),
		})
	}
	return records, nil
}

// HackerStoryParser reads the hacker-story payload shape:
// hits[].{objectID,title,url,created_at,author,num_comments,points}.
type HackerStoryParser struct{}

type hackerStoryPayload struct {
	Hits []struct {
		ObjectID    string `json:"objectID"`
		Title       string `json:"title"`
		URL         string `json:"url"`
		CreatedAt   string `json:"created_at"`
		Author      string `json:"author"`
		NumComments int    `json:"num_comments"`
		Points      int    `json:"points"`
	} `json:"hits"`
}

func (HackerStoryParser) ParsePayload(body []byte) ([]domain.RawRecord, error) {
	var payload hackerStoryPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("hacker story payload: %w", err)
	}

	records := make([]domain.RawRecord, 0, len(payload.Hits))
	for _, hit := range payload.Hits {
		if hit.Title == "" {
			continue
		}
		link := hit.URL
		if strings.TrimSpace(link) == "" {
			link = "https://news.ycombinator.com/item?id=" + hit.ObjectID
		}
		published, _ := time.Parse(time.RFC3339, hit.CreatedAt)
		records = append(records, domain.RawRecord{
			ProviderID:  hit.ObjectID,
			Title:       hit.Title,
			URL:         link,
			Author:      hit.Author,
			PublishedAt: published.UTC(),
			Ups:         hit.Points,
			Comments:    hit.NumComments,
		})
	}
	return records, nil
}

func epochSeconds(secs int64) time.Time {
	if secs <= 0 {
		return time.Time{}
	}
	return time.Unix(secs, 0).UTC()
}
