// Package errors provides utilities for error handling in guidscan.
package errors

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"
)

// DeferClose properly closes an io.Closer with logging.
// Use this in defer statements to avoid suppressing close errors.
func DeferClose(logger zerolog.Logger, closer io.Closer, msg string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logger.Warn().Err(err).Msg(msg)
	}
}

// DeferRollback properly rolls back a catalog transaction with logging.
// Ignores bolt.ErrTxClosed which is expected after successful commits.
func DeferRollback(logger zerolog.Logger, tx *bolt.Tx) {
	if tx == nil {
		return
	}
	if err := tx.Rollback(); err != nil && err != bolt.ErrTxClosed {
		logger.Warn().Err(err).Msg("transaction rollback failed")
	}
}

// Must panics if error is not nil.
// Use only for initialization code where failure should halt the program.
func Must(err error, msg string) {
	if err != nil {
		panic(fmt.Sprintf("%s: %v", msg, err))
	}
}
