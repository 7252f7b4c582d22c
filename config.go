package deq

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/teenjuna/deq/codec"
	"github.com/teenjuna/deq/codec/json"
)

type Option[Item any] = func(*config[Item])

// WithPushEnd sets the end at which Push and PushAll insert. Default: [Rear].
func WithPushEnd[Item any](end End) Option[Item] {
	if !end.valid() {
		panic("push end must be Front or Rear")
	}
	return func(c *config[Item]) {
		c.pushEnd = end
	}
}

// WithPopEnd sets the end from which Pop and Drain remove. Default: [Front].
func WithPopEnd[Item any](end End) Option[Item] {
	if !end.valid() {
		panic("pop end must be Front or Rear")
	}
	return func(c *config[Item]) {
		c.popEnd = end
	}
}

// WithFile makes the buffer persistent: New restores the latest snapshot from
// the file and Close writes a final one.
func WithFile[Item any](file *FileConfig) Option[Item] {
	if file == nil {
		panic("file can't be nil")
	}
	return func(c *config[Item]) {
		c.file = file
	}
}

// WithCodec sets the codec used to encode and decode snapshots.
func WithCodec[Item any](codec codec.Codec[Item]) Option[Item] {
	if codec == nil {
		panic("codec can't be nil")
	}
	return func(c *config[Item]) {
		c.codec = codec
	}
}

// WithPrometheus enables Prometheus metrics. If registerer is nil, metrics
// will not be registered.
func WithPrometheus[Item any](
	registerer prometheus.Registerer,
	namespace, subsystem string,
) Option[Item] {
	return func(c *config[Item]) {
		c.metrics = newMetrics(registerer, namespace, subsystem)
	}
}

type config[Item any] struct {
	pushEnd End
	popEnd  End
	file    *FileConfig
	codec   codec.Codec[Item]
	metrics *metrics
}

func newConfig[Item any](options ...Option[Item]) *config[Item] {
	options = append([]Option[Item]{
		WithPushEnd[Item](Rear),
		WithPopEnd[Item](Front),
		WithCodec(json.New[Item]()),
		WithPrometheus[Item](nil, "deq", ""),
	}, options...)

	cfg := config[Item]{}
	for _, opt := range options {
		opt(&cfg)
	}

	return &cfg
}
