package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
)

// Setup installs a JSON slog logger on stdout as the process default.
func Setup() {
	slog.SetDefault(slog.New(NewJSONHandler(os.Stdout)))
}

func NewJSONHandler(w io.Writer) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
}

// WithStore pairs the console handler with a persistent store such as
// DBHandler. The console always sees the record first; a failing store is
// reported through the returned error but never hides console output.
func WithStore(console, store slog.Handler) slog.Handler {
	return tee{console: console, store: store}
}

type tee struct {
	console slog.Handler
	store   slog.Handler
}

func (t tee) Enabled(ctx context.Context, level slog.Level) bool {
	return t.console.Enabled(ctx, level) || t.store.Enabled(ctx, level)
}

func (t tee) Handle(ctx context.Context, record slog.Record) error {
	var consoleErr, storeErr error
	if t.console.Enabled(ctx, record.Level) {
		consoleErr = t.console.Handle(ctx, record.Clone())
	}
	if t.store.Enabled(ctx, record.Level) {
		storeErr = t.store.Handle(ctx, record)
	}
	return errors.Join(consoleErr, storeErr)
}

func (t tee) WithAttrs(attrs []slog.Attr) slog.Handler {
	return tee{console: t.console.WithAttrs(attrs), store: t.store.WithAttrs(attrs)}
}

func (t tee) WithGroup(name string) slog.Handler {
	return tee{console: t.console.WithGroup(name), store: t.store.WithGroup(name)}
}
