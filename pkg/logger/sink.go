package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Entry is one log record as stored in the audit collection. Request, user
// and order IDs are lifted out of the attributes so an order's history can
// be queried with a plain index lookup.
type Entry struct {
	At        time.Time `bson:"at"`
	Level     string    `bson:"level"`
	Message   string    `bson:"message"`
	RequestID string    `bson:"request_id,omitempty"`
	UserID    string    `bson:"user_id,omitempty"`
	OrderID   string    `bson:"order_id,omitempty"`
	Fields    bson.M    `bson:"fields,omitempty"`
}

// promoted maps attribute keys onto their Entry field.
var promoted = map[string]func(*Entry, string){
	"request_id": func(e *Entry, v string) { e.RequestID = v },
	"user_id":    func(e *Entry, v string) { e.UserID = v },
	"order_id":   func(e *Entry, v string) { e.OrderID = v },
}

// SinkOptions tunes a Sink. Zero values fall back to the defaults below.
type SinkOptions struct {
	MinLevel  slog.Level
	Buffer    int
	BatchSize int
	Interval  time.Duration
	Retention time.Duration
}

func (o SinkOptions) withDefaults() SinkOptions {
	if o.Buffer <= 0 {
		o.Buffer = 4096
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 50
	}
	if o.Interval <= 0 {
		o.Interval = 2 * time.Second
	}
	if o.Retention <= 0 {
		o.Retention = 30 * 24 * time.Hour
	}
	return o
}

// sinkCore is shared by every handler derived through WithAttrs/WithGroup.
type sinkCore struct {
	opts    SinkOptions
	entries chan Entry
	dropped atomic.Uint64

	write func(ctx context.Context, batch []interface{}) error

	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// Sink is an slog.Handler that queues records and writes them to MongoDB in
// batches from a single goroutine. Handle never blocks: when the queue is
// full the record is counted as dropped.
type Sink struct {
	core   *sinkCore
	attrs  []slog.Attr
	prefix string
}

// NewSink starts a Sink writing into col. Close must be called to flush.
func NewSink(ctx context.Context, col *mongo.Collection, opts SinkOptions) *Sink {
	opts = opts.withDefaults()

	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "at", Value: -1}},
			Options: options.Index().SetExpireAfterSeconds(int32(opts.Retention.Seconds())),
		},
		{Keys: bson.D{{Key: "order_id", Value: 1}, {Key: "at", Value: 1}}},
	})

	s := newSink(opts, func(ctx context.Context, batch []interface{}) error {
		_, err := col.InsertMany(ctx, batch)
		return err
	})
	go s.core.run()
	return s
}

func newSink(opts SinkOptions, write func(context.Context, []interface{}) error) *Sink {
	opts = opts.withDefaults()
	return &Sink{core: &sinkCore{
		opts:    opts,
		entries: make(chan Entry, opts.Buffer),
		write:   write,
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}}
}

// Dropped reports how many records were discarded because the queue was full.
func (s *Sink) Dropped() uint64 { return s.core.dropped.Load() }

// Close flushes queued entries and stops the writer. Safe to call repeatedly.
func (s *Sink) Close() {
	s.core.once.Do(func() { close(s.core.stop) })
	<-s.core.stopped
}

// ─── slog.Handler ─────────────────────────────────────────────────────────────

func (s *Sink) Enabled(_ context.Context, l slog.Level) bool { return l >= s.core.opts.MinLevel }

func (s *Sink) Handle(_ context.Context, r slog.Record) error {
	e := Entry{At: r.Time, Level: r.Level.String(), Message: r.Message}
	for _, a := range s.attrs {
		s.add(&e, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		s.add(&e, a)
		return true
	})

	select {
	case s.core.entries <- e:
	default:
		s.core.dropped.Add(1)
	}
	return nil
}

func (s *Sink) add(e *Entry, a slog.Attr) {
	if s.prefix == "" {
		if set, ok := promoted[a.Key]; ok {
			set(e, a.Value.Resolve().String())
			return
		}
	}
	if e.Fields == nil {
		e.Fields = bson.M{}
	}
	e.Fields[s.prefix+a.Key] = bsonValue(a.Value)
}

func (s *Sink) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *s
	next.attrs = append(append([]slog.Attr(nil), s.attrs...), attrs...)
	return &next
}

func (s *Sink) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	next := *s
	next.prefix = s.prefix + name + "."
	return &next
}

func bsonValue(v slog.Value) interface{} {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindGroup:
		m := bson.M{}
		for _, a := range v.Group() {
			m[a.Key] = bsonValue(a.Value)
		}
		return m
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindAny:
		switch x := v.Any().(type) {
		case error:
			return x.Error()
		case fmt.Stringer:
			return x.String()
		}
		return fmt.Sprint(v.Any())
	}
	return v.Any()
}

// ─── Writer ───────────────────────────────────────────────────────────────────

func (c *sinkCore) run() {
	defer close(c.stopped)
	tick := time.NewTicker(c.opts.Interval)
	defer tick.Stop()

	batch := make([]interface{}, 0, c.opts.BatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.write(ctx, batch); err != nil {
			fmt.Fprintf(os.Stderr, "logger: audit sink lost %d entries: %v\n", len(batch), err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case e := <-c.entries:
			if batch = append(batch, e); len(batch) >= c.opts.BatchSize {
				flush()
			}
		case <-tick.C:
			flush()
		case <-c.stop:
			for {
				select {
				case e := <-c.entries:
					if batch = append(batch, e); len(batch) >= c.opts.BatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

// ─── Fan-out ──────────────────────────────────────────────────────────────────

// Tee sends each record to every handler that accepts its level.
type Tee []slog.Handler

func (t Tee) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (t Tee) Handle(ctx context.Context, r slog.Record) error {
	var errs []string
	for _, h := range t {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("logger: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (t Tee) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(Tee, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t Tee) WithGroup(name string) slog.Handler {
	out := make(Tee, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}
