package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"newsdesk/internal/domain"
)

// InitRedis connects to Redis and verifies the connection. The process
// cannot serve cached snapshots without it, so a failed ping is fatal.
func InitRedis(ctx context.Context, addr string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to Redis: %v", err)
	}
	log.Println("Connected to Redis")
	return client
}

// Snapshot is one aggregated stream for a category, as stored in Redis.
type Snapshot struct {
	Items     []domain.Item `json:"items"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// Snapshots stores the latest aggregated stream per category so reads do
// not hit the upstream sources.
type Snapshots struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSnapshots(client *redis.Client, ttl time.Duration) *Snapshots {
	return &Snapshots{client: client, ttl: ttl}
}

func snapshotKey(category string) string {
	return fmt.Sprintf("newsdesk:snapshot:%s", category)
}

// Put stores the snapshot for a category, replacing any previous one.
func (s *Snapshots) Put(ctx context.Context, category string, snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey(category), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

// Get returns the snapshot for a category. ok is false when there is no
// snapshot or it could not be decoded.
func (s *Snapshots) Get(ctx context.Context, category string) (Snapshot, bool) {
	raw, err := s.client.Get(ctx, snapshotKey(category)).Bytes()
	if err == redis.Nil {
		return Snapshot{}, false
	}
	if err != nil {
		log.Printf("cache: read snapshot %s: %v", category, err)
		return Snapshot{}, false
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		log.Printf("cache: decode snapshot %s: %v", category, err)
		return Snapshot{}, false
	}
	return snap, true
}

// Invalidate drops the snapshot for a category.
func (s *Snapshots) Invalidate(ctx context.Context, category string) error {
	return s.client.Del(ctx, snapshotKey(category)).Err()
}
