// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package sheetedit

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmptyPayload is returned when there is nothing to decode.
	ErrEmptyPayload = errors.New("file is empty")
	// ErrNotAdmin is returned by sheet-level mutations without admin privilege.
	ErrNotAdmin = errors.New("admin privilege required")
	// ErrBusy is returned when a load or save is already in flight.
	ErrBusy = errors.New("another load or save is in progress")
)

// DecodeError is returned when a payload is not a readable workbook.
type DecodeError struct {
	FileName string
	Err      error
}

func (e *DecodeError) Error() string {
	if e.FileName == "" {
		return fmt.Sprintf("decode workbook: %v", e.Err)
	}
	return fmt.Sprintf("decode workbook %q: %v", e.FileName, e.Err)
}
func (e *DecodeError) Unwrap() error { return e.Err }

// TransportError is a network failure or a non-2xx response.
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		if e.Body != "" {
			return fmt.Sprintf("%s %s: HTTP %d: %s", e.Op, e.URL, e.StatusCode, e.Body)
		}
		return fmt.Sprintf("%s %s: HTTP %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}
func (e *TransportError) Unwrap() error { return e.Err }

// TimeoutError is returned when a request did not finish in time.
type TimeoutError struct {
	Op      string
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: request cancelled after %s, try again", e.Op, e.Timeout)
}
func (e *TimeoutError) Unwrap() error { return e.Err }

// VerificationWarning reports a problem found after a successful save.
// It never turns the save into a failure.
type VerificationWarning struct {
	Op  string
	Err error
}

func (e *VerificationWarning) Error() string {
	return fmt.Sprintf("saved, but %s: %v", e.Op, e.Err)
}
func (e *VerificationWarning) Unwrap() error { return e.Err }
