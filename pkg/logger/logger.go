// Package logger wraps log/slog with the process-wide logger and a
// per-request logger carried in the context:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order created", "order_id", order.ID)
//	// → time=... level=INFO msg="order created" request_id=a1b2c3d4 order_id=...
//
// AttachMongo adds an audit copy of every INFO+ record in MongoDB.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/dinehub/config"
	"github.com/shashiranjanraj/dinehub/pkg/mongodb"
)

// L is the process-wide base logger.
var L = slog.New(console())

func init() { slog.SetDefault(L) }

// console writes JSON in production and text everywhere else.
func console() slog.Handler {
	env := config.AppEnv()
	opts := &slog.HandlerOptions{Level: level(config.LogLevel(), env)}
	if env == "production" || env == "prod" {
		return slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.NewTextHandler(os.Stdout, opts)
}

func level(name, env string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if env == "production" || env == "prod" {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

// AttachMongo tees the base logger into the "logs" collection of database.
// The returned func flushes the sink and disconnects.
func AttachMongo(ctx context.Context, uri, database string) (func(), error) {
	db, err := mongodb.Connect(ctx, uri, database)
	if err != nil {
		return func() {}, fmt.Errorf("logger: attach mongo: %w", err)
	}

	sink := NewSink(ctx, db.Collection("logs"), SinkOptions{MinLevel: slog.LevelInfo})
	L = slog.New(Tee{console(), sink})
	slog.SetDefault(L)

	return func() {
		sink.Close()
		if n := sink.Dropped(); n > 0 {
			L.Warn("audit sink dropped records", "count", n)
		}
		_ = mongodb.Disconnect(context.Background(), db)
	}, nil
}

// ─── Request scope ────────────────────────────────────────────────────────────

type ctxKey struct{}

// WithCtx returns the logger stored by InjectLogger, or L.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
			return log
		}
	}
	return L
}

// InjectLogger returns a copy of ctx carrying log.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
