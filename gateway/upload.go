// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/UNO-SOFT/sheetedit"
)

// Uploader copies a saved workbook to an external storage.
type Uploader interface {
	// Upload stores data under name, and returns its URL.
	Upload(ctx context.Context, name string, data []byte) (string, error)
}

// HTTPUploader PUTs the workbook to {BaseURL}/{Prefix}/{name}.
type HTTPUploader struct {
	BaseURL, Prefix string
	Client          *http.Client
}

func (u HTTPUploader) Upload(ctx context.Context, name string, data []byte) (string, error) {
	target := strings.TrimSuffix(u.BaseURL, "/") + "/"
	if p := strings.Trim(u.Prefix, "/"); p != "" {
		target += p + "/"
	}
	target += url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, "PUT", target, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", sheetedit.MimeType)
	cl := u.Client
	if cl == nil {
		cl = http.DefaultClient
	}
	resp, err := cl.Do(req)
	if err != nil {
		return "", &sheetedit.TransportError{Op: "upload", URL: target, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &sheetedit.TransportError{Op: "upload", URL: target, StatusCode: resp.StatusCode}
	}
	if loc := resp.Header.Get("Location"); loc != "" {
		return loc, nil
	}
	return target, nil
}
