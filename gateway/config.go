// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package gateway

import "time"

// Config of the persistence gateway.
type Config struct {
	// BaseURL of the server, such as http://localhost:3001.
	BaseURL string
	// FileName of the workbook under /data/.
	FileName string
	// Timeout of one request.
	Timeout time.Duration
	// SettleDelay is waited after a save before re-fetching.
	SettleDelay time.Duration
	// VerifyDelay is waited after a save before checking the server's health.
	VerifyDelay time.Duration
	// UploadURL is the base URL of the external object storage, optional.
	UploadURL string
	// UploadPrefix is the folder of the uploaded copies.
	UploadPrefix string
}

// DefaultConfig returns the defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:      "http://localhost:3001",
		FileName:     "sample.xlsx",
		Timeout:      60 * time.Second,
		SettleDelay:  2 * time.Second,
		VerifyDelay:  time.Second,
		UploadPrefix: "excels",
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.FileName == "" {
		c.FileName = d.FileName
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.UploadPrefix == "" {
		c.UploadPrefix = d.UploadPrefix
	}
	return c
}
