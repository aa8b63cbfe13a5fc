// Package repository implements the MySQL-backed stores behind the
// reservation engine.  Sentinel values defined here let the service layer
// distinguish failure scenarios with errors.Is instead of matching driver
// errors directly.
package repository

import "errors"

// ErrTxBusy is returned when a write transaction aborts because of lock
// contention with a concurrent writer (deadlock or lock-wait timeout).
// The service layer retries the operation once and reports a table
// conflict if the retry fails as well.
var ErrTxBusy = errors.New("transaction aborted by concurrent writer")

// ErrStaleStatus is returned when a compare-and-set status update finds the
// reservation no longer in the expected state, meaning another actor won
// the transition race.
var ErrStaleStatus = errors.New("reservation status changed concurrently")
