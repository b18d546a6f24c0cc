package migration

import (
	"fmt"
	"strings"
	"sync"

	"pelagos/internal/model"
)

// History is the append-only record of migration events in arrival order.
type History struct {
	mu    sync.Mutex
	items []model.MigrationRecord
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Append(count, origin, destination int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items = append(h.items, model.MigrationRecord{
		Count:       count,
		Origin:      origin,
		Destination: destination,
	})
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.items)
}

// Records returns a copy of all history items.
func (h *History) Records() []model.MigrationRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]model.MigrationRecord(nil), h.items...)
}

// Dump renders one line per item: "count origin -> destination".
func (h *History) Dump() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	var b strings.Builder
	for _, item := range h.items {
		fmt.Fprintf(&b, "%d %d -> %d\n", item.Count, item.Origin, item.Destination)
	}
	return b.String()
}

func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items = nil
}

// Clone deep-copies the history, used when copying an archipelago.
func (h *History) Clone() *History {
	h.mu.Lock()
	defer h.mu.Unlock()
	return &History{items: append([]model.MigrationRecord(nil), h.items...)}
}
