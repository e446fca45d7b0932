package repository

import (
	"context"
	"database/sql/driver"
	"errors"

	"github.com/mattn/go-sqlite3"

	"riderDeliveryPortal/internal/apperr"
	"riderDeliveryPortal/models"
)

// classify wraps a driver error into an apperr.Error. Errors that are already
// classified pass through unchanged.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return apperr.New(apperr.TransientIO, op, "", err)
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrIoErr, sqlite3.ErrProtocol:
			return apperr.New(apperr.TransientIO, op, "", err)
		case sqlite3.ErrConstraint:
			return apperr.New(apperr.ValidationFailure, op, "constraint violation", err)
		}
	}
	return apperr.New(apperr.Internal, op, "", err)
}

func notFound(op, what, id string) error {
	return apperr.Errorf(apperr.NotFound, op, "%s %q not found", what, id)
}

// explainTransition decides why an order in status cur could not move to status to
// when the caller expected it to be in one of expected.
//
// A status the order could have reached from an expected one means another caller
// moved it first: Conflict. Anything else is an invalid request: ValidationFailure.
func explainTransition(op string, cur models.OrderStatus, expected []models.OrderStatus, to models.OrderStatus) error {
	for _, e := range expected {
		if cur == e {
			return nil
		}
	}
	for _, e := range expected {
		if models.Reachable(e, cur) {
			return apperr.Errorf(apperr.Conflict, op, "order moved to %s concurrently", cur)
		}
	}
	return apperr.Errorf(apperr.ValidationFailure, op, "cannot move order from %s to %s", cur, to)
}
