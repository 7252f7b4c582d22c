// Package deq provides a generic, thread-safe double-ended buffer for passing
// items between producer and consumer goroutines.
//
// The ends used for insertion and removal are fixed at construction. The
// defaults (push Rear, pop Front) give FIFO ordering; pushing and popping at
// the same end gives LIFO. A buffer can optionally persist its contents to a
// SQLite file as snapshots, so that items survive restarts.
package deq

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/gammazero/deque"

	"github.com/teenjuna/deq/internal/sqlite"
)

var (
	// ErrClosed is returned by Sync and Close after the buffer has been closed.
	ErrClosed = errors.New("buffer is closed")
)

// End selects one of the two ends of the buffer.
type End uint8

const (
	// Front is the head end of the buffer.
	Front End = iota
	// Rear is the tail end of the buffer.
	Rear
)

func (e End) String() string {
	switch e {
	case Front:
		return "front"
	case Rear:
		return "rear"
	}
	return fmt.Sprintf("End(%d)", uint8(e))
}

func (e End) valid() bool {
	return e == Front || e == Rear
}

// Buffer is a double-ended buffer guarded by a single lock.
//
// All operations are safe for concurrent use and are serialized with respect
// to each other. The buffer is unbounded and never blocks waiting for items
// or space.
type Buffer[Item any] struct {
	cfg     *config[Item]
	storage *sqlite.Storage
	closing *atomic.Bool

	mu    sync.Mutex
	items deque.Deque[Item]

	// syncMu serializes Sync and Close: the codec is shared and not
	// thread-safe, and the snapshot written by Close must be the last one.
	syncMu sync.Mutex
}

// New creates a new Buffer with the provided options.
//
// Default configuration:
//   - Push end: Rear
//   - Pop end: Front
//   - Codec: json
//   - No persistence, no registered metrics
//
// Without [WithFile] the returned error is always nil. With a file configured,
// New opens the snapshot store and restores the latest snapshot, and either
// step can fail.
func New[Item any](options ...Option[Item]) (*Buffer[Item], error) {
	cfg := newConfig(options...)

	buffer := Buffer[Item]{
		cfg:     cfg,
		closing: new(atomic.Bool),
	}

	if cfg.file == nil {
		return &buffer, nil
	}

	storage, err := sqlite.New(sqlite.WithURI(cfg.file.uri()))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	buffer.storage = storage

	snapshot, err := storage.Load()
	if err != nil {
		return nil, errors.Join(fmt.Errorf("load snapshot: %w", err), storage.Close())
	}
	if snapshot != nil {
		// Restore runs before the buffer is shared, so no locking here. Items
		// are appended in their stored front-to-rear order, which makes a
		// save/restore cycle invisible to subsequent pops.
		if err := cfg.codec.Decode(snapshot.Data, buffer.items.PushBack); err != nil {
			return nil, errors.Join(fmt.Errorf("decode snapshot: %w", err), storage.Close())
		}
	}
	cfg.metrics.items.Set(float64(buffer.items.Len()))

	return &buffer, nil
}

// Push inserts item at the buffer's push end.
func (b *Buffer[Item]) Push(item Item) {
	b.mu.Lock()
	b.push(item)
	b.cfg.metrics.pushes.Inc()
	b.cfg.metrics.items.Set(float64(b.items.Len()))
	b.mu.Unlock()
}

// PushAll inserts every element of items at the push end, in input order,
// holding the lock once for the whole batch: no concurrent push, pop or drain
// observes a partially inserted batch.
//
// PushAll is observationally equivalent to pushing each element with Push in
// input order. With a Front push end each element becomes the new front, so
// the batch lands reversed relative to input order.
func (b *Buffer[Item]) PushAll(items ...Item) {
	b.mu.Lock()
	for _, item := range items {
		b.push(item)
	}
	b.cfg.metrics.pushes.Add(float64(len(items)))
	b.cfg.metrics.items.Set(float64(b.items.Len()))
	b.mu.Unlock()
}

// Pop removes and returns the element at the buffer's pop end.
//
// The second return value is false when the buffer is empty, in which case
// nothing is mutated. An empty buffer is a normal outcome, not an error.
func (b *Buffer[Item]) Pop() (Item, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.items.Len() == 0 {
		b.cfg.metrics.pops.WithLabelValues("empty").Inc()
		var zero Item
		return zero, false
	}

	item := b.pop()
	b.cfg.metrics.pops.WithLabelValues("item").Inc()
	b.cfg.metrics.items.Set(float64(b.items.Len()))
	return item, true
}

// Drain removes all elements and returns them in exactly the order repeated
// Pop calls would have produced, under a single lock acquisition. Returns nil
// when the buffer is empty.
func (b *Buffer[Item]) Drain() []Item {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.items.Len() == 0 {
		return nil
	}

	items := make([]Item, 0, b.items.Len())
	for b.items.Len() != 0 {
		items = append(items, b.pop())
	}

	b.cfg.metrics.drains.Inc()
	b.cfg.metrics.drainSize.Observe(float64(len(items)))
	b.cfg.metrics.items.Set(0)
	return items
}

// Size returns the number of elements currently in the buffer.
//
// Under concurrent use the value can be stale as soon as the call returns.
func (b *Buffer[Item]) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.items.Len()
}

// Sync encodes a point-in-time copy of the buffer's contents and saves it as
// the latest snapshot, replacing the previous one. Items pushed after the copy
// is taken are covered by the next Sync.
//
// Sync is a no-op on a buffer without a file. Returns [ErrClosed] after Close.
func (b *Buffer[Item]) Sync() error {
	if b.storage == nil {
		return nil
	}

	b.syncMu.Lock()
	defer b.syncMu.Unlock()

	if b.closing.Load() {
		return ErrClosed
	}
	return b.sync()
}

// Close persists a final snapshot (when a file is configured) and closes the
// snapshot store. Push, Pop, Drain and Size keep operating on the in-memory
// state after Close; only Sync and further Close calls return [ErrClosed].
func (b *Buffer[Item]) Close() error {
	b.syncMu.Lock()
	defer b.syncMu.Unlock()

	if b.closing.Swap(true) {
		return ErrClosed
	}
	if b.storage == nil {
		return nil
	}

	errs := make([]error, 0)

	if err := b.sync(); err != nil {
		errs = append(errs, fmt.Errorf("sync: %w", err))
	}
	if err := b.storage.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close sqlite: %w", err))
	}

	return errors.Join(errs...)
}

func (b *Buffer[Item]) push(item Item) {
	switch b.cfg.pushEnd {
	case Front:
		b.items.PushFront(item)
	case Rear:
		b.items.PushBack(item)
	}
}

func (b *Buffer[Item]) pop() Item {
	switch b.cfg.popEnd {
	case Front:
		return b.items.PopFront()
	default:
		return b.items.PopBack()
	}
}

func (b *Buffer[Item]) sync() error {
	// The copy is taken under the lock, but the codec runs outside of it:
	// codecs are caller-provided and must never be invoked while the lock is
	// held.
	items := b.copyItems()

	data, err := b.cfg.codec.Encode(slices.Values(items))
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if _, err := b.storage.Save(data, len(items)); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	b.cfg.metrics.snapshots.Inc()
	return nil
}

// copyItems returns a point-in-time copy of the items in front-to-rear order.
func (b *Buffer[Item]) copyItems() []Item {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := make([]Item, b.items.Len())
	for i := range items {
		items[i] = b.items.At(i)
	}
	return items
}
