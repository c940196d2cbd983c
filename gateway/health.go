// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Health is the status document of the server.
type Health struct {
	Status           string   `json:"status"`
	Environment      string   `json:"environment"`
	DataDir          string   `json:"dataDir"`
	DataDirExists    bool     `json:"dataDirExists"`
	FilesInDataDir   []string `json:"filesInDataDir"`
	SampleFileExists bool     `json:"sampleFileExists"`
	SampleFileSize   int64    `json:"sampleFileSize"`
}

var (
	// ErrFileMissing is reported when the server does not have the saved file.
	ErrFileMissing = errors.New("file not found on server")
	// ErrFileEmpty is reported when the saved file is empty on the server.
	ErrFileEmpty = errors.New("file is empty on server")
)

// SizeMismatchError is reported when the server stored a different size than sent.
type SizeMismatchError struct {
	Sent, Stored int64
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("stored %d bytes instead of %d", e.Stored, e.Sent)
}

// Status returns the health document of the server.
func (cl *Client) Status(ctx context.Context) (*Health, error) {
	ctx, cancel, limit := cl.withTimeout(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", cl.url("/api/health"), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := cl.do(req, "health", limit)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	b, err := cl.readBody(resp, "health", limit)
	if err != nil {
		return nil, err
	}
	var h Health
	if err = json.Unmarshal(b, &h); err != nil {
		return nil, fmt.Errorf("parse health %q: %w", excerpt(b), err)
	}
	return &h, nil
}

// Verify reports whether the server has a non-empty workbook file.
func (cl *Client) Verify(ctx context.Context) (bool, error) {
	ctx, cancel, limit := cl.withTimeout(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "HEAD", cl.dataURL(), nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Cache-Control", "no-cache")
	resp, err := cl.do(req, "verify", limit)
	if err != nil {
		cl.logger.Debug("verify", "error", err)
		return false, err
	}
	resp.Body.Close()
	return resp.ContentLength != 0, nil
}

// verifySaved checks that the server holds the file with the given size.
func (cl *Client) verifySaved(ctx context.Context, size int64) error {
	h, err := cl.Status(ctx)
	if err != nil {
		return err
	}
	return h.check(size)
}

func (h *Health) check(size int64) error {
	switch {
	case !h.SampleFileExists:
		return ErrFileMissing
	case h.SampleFileSize == 0:
		return ErrFileEmpty
	case size > 0 && h.SampleFileSize != size:
		return &SizeMismatchError{Sent: size, Stored: h.SampleFileSize}
	}
	return nil
}
