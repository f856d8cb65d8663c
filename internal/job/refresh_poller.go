package job

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel/trace"

	"newsdesk/internal/domain"
)

type Refresher interface {
	Refresh(ctx context.Context, category string) ([]domain.Item, error)
}

type SnapshotBroadcaster interface {
	BroadcastSnapshot(category string, items []domain.Item)
}

type CriticalNotifier interface {
	NotifyCritical(ctx context.Context, items []domain.Item) error
}

// RefreshPoller re-aggregates the full stream on a fixed interval and fans
// the result out to websocket clients and the alert dispatcher.
type RefreshPoller struct {
	tracer    trace.Tracer
	refresher Refresher
	hub       SnapshotBroadcaster
	alerts    CriticalNotifier
	interval  time.Duration
}

func NewRefreshPoller(
	tracer trace.Tracer,
	refresher Refresher,
	hub SnapshotBroadcaster,
	alerts CriticalNotifier,
	interval time.Duration,
) *RefreshPoller {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &RefreshPoller{
		tracer:    tracer,
		refresher: refresher,
		hub:       hub,
		alerts:    alerts,
		interval:  interval,
	}
}

func (j *RefreshPoller) Start(ctx context.Context) {
	if j == nil || j.refresher == nil {
		<-ctx.Done()
		return
	}

	log.Println("News refresh poller starting...")
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("News refresh poller stopped")
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

func (j *RefreshPoller) runOnce(ctx context.Context) {
	if j.tracer != nil {
		var span trace.Span
		ctx, span = j.tracer.Start(ctx, "refresh-poller.run")
		defer span.End()
	}

	items, err := j.refresher.Refresh(ctx, domain.CategoryAll)
	if err != nil {
		log.Printf("news refresh error: %v", err)
		return
	}
	log.Printf("news refresh completed: %d item(s)", len(items))

	if j.hub != nil {
		j.hub.BroadcastSnapshot(domain.CategoryAll, items)
	}
	if j.alerts != nil {
		if err := j.alerts.NotifyCritical(ctx, items); err != nil {
			log.Printf("critical alert error: %v", err)
		}
	}
}
