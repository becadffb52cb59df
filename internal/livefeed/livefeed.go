package livefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Skotchmaster/pos_backend/internal/logging"
	"gorm.io/gorm"
)

// SnapshotFunc produces the current full contents of one collection, one
// raw JSON document per record.
type SnapshotFunc func(ctx context.Context) ([]json.RawMessage, error)

// Hub fans full collection snapshots out to live subscribers. Every
// mutation notifies the hub, the hub re-reads the whole collection and
// pushes it to everyone watching it. Nothing is fetched while a
// collection has no subscribers.
type Hub struct {
	mu      sync.Mutex
	sources map[string]SnapshotFunc
	subs    map[string]map[chan []byte]struct{}
}

func NewHub() *Hub {
	return &Hub{
		sources: make(map[string]SnapshotFunc),
		subs:    make(map[string]map[chan []byte]struct{}),
	}
}

func (h *Hub) Register(collection string, fn SnapshotFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sources[collection] = fn
}

// Subscribe attaches a consumer to a collection and immediately receives
// snapshots on every change. The returned cancel func detaches the
// consumer and closes the channel.
func (h *Hub) Subscribe(collection string) (<-chan []byte, func(), error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sources[collection]; !ok {
		return nil, nil, fmt.Errorf("livefeed: unknown collection %q", collection)
	}

	ch := make(chan []byte, 1)
	if h.subs[collection] == nil {
		h.subs[collection] = make(map[chan []byte]struct{})
	}
	h.subs[collection][ch] = struct{}{}

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if set, ok := h.subs[collection]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(h.subs, collection)
			}
		}
	}
	return ch, cancel, nil
}

// Notify pushes a fresh snapshot of the collection to all its
// subscribers. A slow consumer only ever misses intermediate states: the
// buffer holds one snapshot and older ones are dropped in its favor.
func (h *Hub) Notify(ctx context.Context, collection string) {
	h.mu.Lock()
	fn, ok := h.sources[collection]
	watched := len(h.subs[collection]) > 0
	h.mu.Unlock()

	if !ok || !watched {
		return
	}

	rows, err := fn(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("livefeed_snapshot_failed", "collection", collection, "error", err)
		return
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		logging.FromContext(ctx).Warn("livefeed_snapshot_failed", "collection", collection, "error", err)
		return
	}

	// Sends happen under the lock so a cancel cannot close a channel
	// mid-send. They never block: buffer of one, older snapshot dropped.
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[collection] {
		select {
		case ch <- payload:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- payload:
			default:
			}
		}
	}
}

// Snapshot fetches the current contents of a collection as one JSON
// array, for the initial push to a fresh subscriber.
func (h *Hub) Snapshot(ctx context.Context, collection string) ([]byte, error) {
	h.mu.Lock()
	fn, ok := h.sources[collection]
	h.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("livefeed: unknown collection %q", collection)
	}

	rows, err := fn(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(rows)
}

// Collections lists the registered collection names.
func (h *Hub) Collections() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, 0, len(h.sources))
	for name := range h.sources {
		names = append(names, name)
	}
	return names
}

// GormSnapshot adapts a gorm-backed collection to a SnapshotFunc. Each
// record is marshaled on its own so one bad row is skipped instead of
// killing the feed.
func GormSnapshot[T any](db *gorm.DB) SnapshotFunc {
	return func(ctx context.Context) ([]json.RawMessage, error) {
		var recs []T
		if err := db.WithContext(ctx).Find(&recs).Error; err != nil {
			return nil, err
		}
		rows := make([]json.RawMessage, 0, len(recs))
		for _, rec := range recs {
			data, err := json.Marshal(rec)
			if err != nil {
				logging.FromContext(ctx).Warn("livefeed_record_skipped", "error", err)
				continue
			}
			rows = append(rows, data)
		}
		return rows, nil
	}
}
