// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"time"
)

// Settler waits until a saved file can be read back.
type Settler interface {
	Settle(ctx context.Context, cl *Client, size int64) error
}

// FixedDelay waits for the given duration.
type FixedDelay time.Duration

func (d FixedDelay) Settle(ctx context.Context, _ *Client, _ int64) error {
	return sleep(ctx, time.Duration(d))
}

// HealthPoll polls the server's health until it reports the saved size.
type HealthPoll struct {
	// Interval between polls, 250ms by default.
	Interval time.Duration
	// Max is the longest wait, 10s by default.
	Max time.Duration
}

func (p HealthPoll) Settle(ctx context.Context, cl *Client, size int64) error {
	interval, maxWait := p.Interval, p.Max
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	if maxWait <= 0 {
		maxWait = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, maxWait)
	defer cancel()
	var last error
	for {
		h, err := cl.Status(ctx)
		if err == nil {
			if err = h.check(size); err == nil {
				return nil
			}
		}
		if ctx.Err() != nil && last != nil {
			return last
		}
		last = err
		cl.logger.Debug("settle", "size", size, "error", err)
		if sleep(ctx, interval) != nil {
			return last
		}
	}
}
