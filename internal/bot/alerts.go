package bot

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	tele "gopkg.in/telebot.v3"

	"newsdesk/internal/domain"
)

type messageSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// AlertDispatcher pushes critical headlines to subscribed chats. Each item
// is alerted at most once, however many refresh cycles it survives.
type AlertDispatcher struct {
	sender messageSender

	mu          sync.RWMutex
	subscribers map[int64]struct{}
	alerted     map[string]struct{}
}

func NewAlertDispatcher(sender messageSender) *AlertDispatcher {
	return &AlertDispatcher{
		sender:      sender,
		subscribers: make(map[int64]struct{}),
		alerted:     make(map[string]struct{}),
	}
}

func (d *AlertDispatcher) Subscribe(chatID int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.subscribers[chatID]; exists {
		return false
	}
	d.subscribers[chatID] = struct{}{}
	return true
}

func (d *AlertDispatcher) Unsubscribe(chatID int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.subscribers[chatID]; !exists {
		return false
	}
	delete(d.subscribers, chatID)
	return true
}

func (d *AlertDispatcher) IsSubscribed(chatID int64) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, exists := d.subscribers[chatID]
	return exists
}

func (d *AlertDispatcher) SubscriberCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subscribers)
}

// NotifyCritical alerts subscribers about critical-impact items they have
// not seen yet. Non-critical items are ignored.
func (d *AlertDispatcher) NotifyCritical(ctx context.Context, items []domain.Item) error {
	_ = ctx
	if d == nil || d.sender == nil || len(items) == 0 {
		return nil
	}

	fresh := d.claimUnalerted(items)
	if len(fresh) == 0 {
		return nil
	}
	chatIDs := d.snapshotSubscribers()
	if len(chatIDs) == 0 {
		return nil
	}

	msg := formatAlertMessage(fresh)
	var failures []string
	for _, chatID := range chatIDs {
		if _, err := d.sender.Send(&tele.Chat{ID: chatID}, msg); err != nil {
			failures = append(failures, fmt.Sprintf("chat %d: %v", chatID, err))
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("failed sending %d alerts: %s", len(failures), strings.Join(failures, "; "))
	}
	return nil
}

// claimUnalerted filters to critical items not alerted before and marks
// them alerted, so concurrent notify calls cannot double-send.
func (d *AlertDispatcher) claimUnalerted(items []domain.Item) []domain.Item {
	d.mu.Lock()
	defer d.mu.Unlock()

	var fresh []domain.Item
	for _, item := range items {
		if item.Impact != domain.ImpactCritical {
			continue
		}
		if _, seen := d.alerted[item.ID]; seen {
			continue
		}
		d.alerted[item.ID] = struct{}{}
		fresh = append(fresh, item)
	}
	return fresh
}

func (d *AlertDispatcher) snapshotSubscribers() []int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()

	chatIDs := make([]int64, 0, len(d.subscribers))
	for chatID := range d.subscribers {
		chatIDs = append(chatIDs, chatID)
	}
	sort.Slice(chatIDs, func(i, j int) bool { return chatIDs[i] < chatIDs[j] })
	return chatIDs
}

func parseAlertMode(args []string) (string, error) {
	if len(args) == 0 {
		return "status", nil
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "on":
		return "on", nil
	case "off":
		return "off", nil
	case "status":
		return "status", nil
	default:
		return "", fmt.Errorf("invalid mode")
	}
}

func formatAlertMessage(items []domain.Item) string {
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, "Critical market news:")
	for _, item := range items {
		lines = append(lines, formatItem(item))
	}
	return strings.Join(lines, "\n")
}

func formatItem(item domain.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d] %s: %s", item.ImpactScore, item.SourceName, item.Title)
	if len(item.RelatedTickers) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(item.RelatedTickers, ", "))
	}
	if item.URL != "" {
		fmt.Fprintf(&b, "\n%s", item.URL)
	}
	return b.String()
}
