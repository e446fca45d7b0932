package repository

import (
	"context"
	"database/sql"
	"time"
)

const defaultOpTimeout = 3 * time.Second

// Option customizes a repository.
type Option func(*base)

// WithTimeout bounds every store call made by the repository.
func WithTimeout(d time.Duration) Option {
	return func(b *base) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(b *base) {
		if now != nil {
			b.now = now
		}
	}
}

// base holds what every repository shares.
type base struct {
	db      *sql.DB
	timeout time.Duration
	now     func() time.Time
}

func newBase(db *sql.DB, opts []Option) base {
	b := base{db: db, timeout: defaultOpTimeout, now: time.Now}
	for _, o := range opts {
		o(&b)
	}
	return b
}

func (b *base) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, b.timeout)
}

// stamp returns the current time truncated to the millisecond precision of the store.
func (b *base) stamp() time.Time {
	return fromMillis(b.now().UnixMilli())
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func timePtr(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := fromMillis(n.Int64)
	return &t
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
