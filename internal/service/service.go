// Package service holds the portal's use cases on top of the repositories:
// order administration and import, rider assignment, proof-of-delivery capture
// and rider statistics.
package service

import (
	"context"

	"go.uber.org/zap"

	"riderDeliveryPortal/internal/apperr"
	"riderDeliveryPortal/internal/logging"
	"riderDeliveryPortal/internal/retry"
)

// Actor is the caller a use case runs for.
type Actor struct {
	UserID string
	Admin  bool
}

// riderScope returns the rider id that writes must be restricted to, or "" for admins.
func (a Actor) riderScope() string {
	if a.Admin {
		return ""
	}
	return a.UserID
}

// deps is what every service shares.
type deps struct {
	log    *zap.Logger
	policy retry.Policy
}

func newDeps(log *zap.Logger, policy retry.Policy) deps {
	if log == nil {
		log = zap.NewNop()
	}
	if policy.MaxAttempts == 0 {
		policy.MaxAttempts = retry.DefaultPolicy.MaxAttempts
	}
	return deps{log: log, policy: policy}
}

func (d deps) logger(ctx context.Context) *zap.Logger {
	return logging.For(ctx, d.log)
}

// logOutcome logs a failed use case at the level its kind deserves.
func (d deps) logOutcome(ctx context.Context, msg string, err error, fields ...zap.Field) {
	l := d.logger(ctx)
	fields = append(fields, zap.Error(err), zap.String("kind", apperr.KindOf(err).String()))
	switch apperr.KindOf(err) {
	case apperr.Conflict, apperr.TransientIO:
		l.Warn(msg, fields...)
	case apperr.Internal:
		l.Error(msg, fields...)
	default:
		l.Debug(msg, fields...)
	}
}

// read retries an idempotent read on transient failures.
func read[T any](ctx context.Context, d deps, op string, fn func(context.Context) (T, error)) (T, error) {
	return retry.Do(ctx, d.policy, d.logger(ctx), op, fn)
}
