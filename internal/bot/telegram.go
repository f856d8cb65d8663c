package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"newsdesk/internal/domain"
	"newsdesk/internal/service"
)

type NewsStreamer interface {
	Stream(ctx context.Context, category string, filter domain.Filter, sortBy domain.SortOption) ([]domain.Item, error)
	Refresh(ctx context.Context, category string) ([]domain.Item, error)
	Status() service.EnrichStatus
}

var knownCategories = []string{
	domain.CategoryAll, domain.CategoryForex, domain.CategoryCrypto,
	domain.CategoryStocks, domain.CategoryGold, domain.CategoryCommodities,
	domain.CategoryTech, domain.CategoryCommunity,
}

// StartTelegramBot starts the long-polling bot and returns its alert
// dispatcher. An empty token disables the bot and returns nil.
func StartTelegramBot(token string, newsService NewsStreamer) *AlertDispatcher {
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return nil
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}
	alerts := NewAlertDispatcher(b)

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/news", func(c tele.Context) error {
		category, err := parseNewsArgs(c.Args())
		if err != nil {
			return c.Send(fmt.Sprintf("Usage: /news [category]\nCategories: %s", strings.Join(knownCategories, ", ")))
		}
		items, err := newsService.Stream(context.Background(), category, domain.Filter{TimeRange: domain.Range24h}, domain.SortImpact)
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching news: %v", err))
		}
		if len(items) == 0 {
			return c.Send("No news in the last 24h.")
		}
		if len(items) > 5 {
			items = items[:5]
		}
		lines := make([]string, 0, len(items)+1)
		lines = append(lines, fmt.Sprintf("Top %s news:", category))
		for _, item := range items {
			lines = append(lines, formatItem(item))
		}
		return c.Send(strings.Join(lines, "\n"))
	})

	b.Handle("/refresh", func(c tele.Context) error {
		category, err := parseNewsArgs(c.Args())
		if err != nil {
			return c.Send(fmt.Sprintf("Usage: /refresh [category]\nCategories: %s", strings.Join(knownCategories, ", ")))
		}
		items, err := newsService.Refresh(context.Background(), category)
		if err != nil {
			return c.Send(fmt.Sprintf("Refresh failed: %v", err))
		}
		return c.Send(fmt.Sprintf("Refreshed %s: %d items", category, len(items)))
	})

	b.Handle("/status", func(c tele.Context) error {
		return c.Send(formatStatus(newsService.Status()))
	})

	b.Handle("/alerts", func(c tele.Context) error {
		mode, err := parseAlertMode(c.Args())
		if err != nil {
			return c.Send("Usage: /alerts on | off | status")
		}
		chatID := c.Chat().ID
		switch mode {
		case "on":
			if alerts.Subscribe(chatID) {
				return c.Send("Critical news alerts enabled for this chat.")
			}
			return c.Send("Alerts already enabled.")
		case "off":
			if alerts.Unsubscribe(chatID) {
				return c.Send("Alerts disabled.")
			}
			return c.Send("Alerts were not enabled.")
		default:
			if alerts.IsSubscribed(chatID) {
				return c.Send("Alerts are ON for this chat.")
			}
			return c.Send("Alerts are OFF for this chat.")
		}
	})

	go b.Start()
	log.Println("Telegram bot started")
	return alerts
}

func parseNewsArgs(args []string) (string, error) {
	if len(args) == 0 {
		return domain.CategoryAll, nil
	}
	category := strings.ToLower(strings.TrimSpace(args[0]))
	for _, known := range knownCategories {
		if category == known {
			return category, nil
		}
	}
	return "", fmt.Errorf("unknown category")
}

func formatStatus(status service.EnrichStatus) string {
	if !status.Enabled {
		return "AI enrichment: disabled"
	}
	lines := []string{"AI enrichment: enabled"}
	if status.Suppressed {
		lines = append(lines, "Suppressed: yes (credits exhausted)")
	}
	if status.LastError != "" {
		lines = append(lines, "Last error: "+status.LastError)
	}
	if !status.LastRunAt.IsZero() {
		lines = append(lines, "Last run: "+status.LastRunAt.UTC().Format(time.RFC3339))
	}
	return strings.Join(lines, "\n")
}
