package broker

import (
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Deduplicator suppresses redelivered broker messages. The consumer group
// gives at-least-once semantics; after a rebalance or restart the same
// message can be read again, and re-fanning it out would double-push to
// every subscriber. Keys age out so the window stays bounded.
type Deduplicator struct {
	seen *expirable.LRU[string, struct{}]
}

func NewDeduplicator(size int, ttl time.Duration) *Deduplicator {
	if size <= 0 {
		size = 4096
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Deduplicator{seen: expirable.NewLRU[string, struct{}](size, nil, ttl)}
}

// Seen records the message and reports whether it was already recorded.
func (d *Deduplicator) Seen(topic string, partition int, offset int64) bool {
	key := fmt.Sprintf("%s/%d/%d", topic, partition, offset)
	if _, ok := d.seen.Get(key); ok {
		return true
	}
	d.seen.Add(key, struct{}{})
	return false
}
