package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestWithCtxFallsBackToBase(t *testing.T) {
	assert.Same(t, L, WithCtx(context.Background()))

	var buf bytes.Buffer
	reqLog := slog.New(slog.NewTextHandler(&buf, nil)).With("request_id", "abc")
	ctx := InjectLogger(context.Background(), reqLog)

	WithCtx(ctx).Info("order created")
	assert.Contains(t, buf.String(), "request_id=abc")
	assert.Contains(t, buf.String(), `msg="order created"`)
}

func TestLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, level("warn", "local"))
	assert.Equal(t, slog.LevelDebug, level("", "local"))
	assert.Equal(t, slog.LevelInfo, level("", "production"))
}

func TestTeeRespectsEachLevel(t *testing.T) {
	var a, b bytes.Buffer
	log := slog.New(Tee{
		slog.NewTextHandler(&a, nil),
		slog.NewJSONHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	})

	log.Info("only text")
	log.Error("both")

	assert.Contains(t, a.String(), "only text")
	assert.Contains(t, a.String(), "both")
	assert.NotContains(t, b.String(), "only text")
	assert.Contains(t, b.String(), `"msg":"both"`)
}

func TestSinkPromotesOrderFields(t *testing.T) {
	s := newSink(SinkOptions{Buffer: 1}, nil)
	log := slog.New(s).With("request_id", "rid-1", "user_id", "u-7").WithGroup("transition")

	log.Warn("rejected", "order_id", "o-1", "from", "Completed", "error", errors.New("terminal"))

	e := <-s.core.entries
	assert.Equal(t, "WARN", e.Level)
	assert.Equal(t, "rid-1", e.RequestID)
	assert.Equal(t, "u-7", e.UserID)
	// Grouped keys are not promoted.
	assert.Empty(t, e.OrderID)
	assert.Equal(t, "o-1", e.Fields["transition.order_id"])
	assert.Equal(t, "Completed", e.Fields["transition.from"])
	assert.Equal(t, "terminal", e.Fields["transition.error"])
}

func TestSinkDropsWhenFull(t *testing.T) {
	s := newSink(SinkOptions{Buffer: 1}, nil)
	log := slog.New(s)

	log.Info("first")
	log.Info("second")

	e := <-s.core.entries
	assert.Equal(t, "first", e.Message)
	assert.Equal(t, uint64(1), s.Dropped())
}

func TestSinkMinLevel(t *testing.T) {
	s := newSink(SinkOptions{MinLevel: slog.LevelInfo}, nil)
	assert.False(t, s.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, s.Enabled(context.Background(), slog.LevelError))
}

func TestSinkCloseFlushesInBatches(t *testing.T) {
	var (
		mu      sync.Mutex
		batches []int
	)
	s := newSink(SinkOptions{BatchSize: 2, Interval: time.Hour}, func(_ context.Context, b []interface{}) error {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, len(b))
		return nil
	})
	go s.core.run()

	log := slog.New(s)
	for i := 0; i < 5; i++ {
		log.Info("status changed", "order_id", "o-1")
	}
	s.Close()
	s.Close()

	mu.Lock()
	defer mu.Unlock()
	total := 0
	for _, n := range batches {
		require.LessOrEqual(t, n, 2)
		total += n
	}
	assert.Equal(t, 5, total)
}

func TestBSONValueGroup(t *testing.T) {
	v := bsonValue(slog.GroupValue(slog.Int("status", 201)))
	assert.Equal(t, bson.M{"status": int64(201)}, v)
	assert.Equal(t, "1.5s", bsonValue(slog.DurationValue(1500*time.Millisecond)))
}
