// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package gateway loads and saves the workbook over HTTP.
//
// The server has no transactional guarantees: a save is followed by a
// best-effort verification and a re-fetch of what the server stored.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/UNO-SOFT/sheetedit"
	"github.com/UNO-SOFT/sheetedit/xlsx"
)

// MaxFileSize is the largest accepted workbook.
const MaxFileSize = 50 << 20

// Client talks to the workbook server.
type Client struct {
	cfg      Config
	http     *http.Client
	logger   *slog.Logger
	uploader Uploader
	settler  Settler
	now      func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) Option { return func(cl *Client) { cl.http = c } }

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option { return func(cl *Client) { cl.logger = logger } }

// WithUploader sets the external storage each saved workbook is copied to.
func WithUploader(u Uploader) Option { return func(cl *Client) { cl.uploader = u } }

// WithSettler sets what to wait for between a save and the re-fetch.
func WithSettler(s Settler) Option { return func(cl *Client) { cl.settler = s } }

// New returns a Client.
func New(cfg Config, options ...Option) *Client {
	cl := Client{
		cfg:    cfg.withDefaults(),
		http:   http.DefaultClient,
		logger: slog.Default(),
		now:    time.Now,
	}
	cl.settler = FixedDelay(cl.cfg.SettleDelay)
	for _, o := range options {
		o(&cl)
	}
	return &cl
}

// Config returns the configuration in use.
func (cl *Client) Config() Config { return cl.cfg }

// FileName returns the name of the workbook file.
func (cl *Client) FileName() string { return cl.cfg.FileName }

func (cl *Client) url(path string) string {
	return strings.TrimSuffix(cl.cfg.BaseURL, "/") + path
}

func (cl *Client) dataURL() string {
	return cl.url("/data/" + url.PathEscape(cl.cfg.FileName))
}

// withTimeout bounds ctx by the configured timeout, and returns the
// shortest limit on the request: the configured one, what is left of
// the deadline of ctx, or the timeout of the HTTP client.
func (cl *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc, time.Duration) {
	limit := cl.cfg.Timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl).Round(time.Millisecond); left < limit {
			limit = left
		}
	}
	if t := cl.http.Timeout; t > 0 && t < limit {
		limit = t
	}
	ctx, cancel, limit := cl.withTimeout(ctx)
	return ctx, cancel, limit
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.Is(err, context.DeadlineExceeded) || errors.As(err, &ne) && ne.Timeout()
}

// do sends the request, and returns the response if it is 2xx.
// The caller must close the body.
func (cl *Client) do(req *http.Request, op string, limit time.Duration) (*http.Response, error) {
	resp, err := cl.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, &sheetedit.TimeoutError{Op: op, Timeout: limit, Err: err}
		}
		return nil, &sheetedit.TransportError{Op: op, URL: req.URL.String(), Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
		return nil, &sheetedit.TransportError{
			Op: op, URL: req.URL.String(), StatusCode: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
			Err:  errors.New(resp.Status),
		}
	}
	return resp, nil
}

func (cl *Client) readBody(resp *http.Response, op string, limit time.Duration) ([]byte, error) {
	var r io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, &sheetedit.TransportError{Op: op, URL: resp.Request.URL.String(), Err: err}
		}
		defer zr.Close()
		r = zr
	}
	b, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		if isTimeout(err) {
			return nil, &sheetedit.TimeoutError{Op: op, Timeout: limit, Err: err}
		}
		return nil, &sheetedit.TransportError{Op: op, URL: resp.Request.URL.String(), Err: err}
	}
	if len(b) > MaxFileSize {
		return nil, &sheetedit.TransportError{Op: op, URL: resp.Request.URL.String(),
			Err: fmt.Errorf("response is bigger than %d bytes", MaxFileSize)}
	}
	return b, nil
}

// Fetch downloads the workbook file, bypassing every cache.
func (cl *Client) Fetch(ctx context.Context) ([]byte, error) {
	ctx, cancel, limit := cl.withTimeout(ctx)
	defer cancel()
	now := cl.now()
	q := url.Values{
		"t":       {strconv.FormatInt(now.UnixMilli(), 10)},
		"r":       {strconv.FormatInt(now.UnixNano()%1_000_000, 36)},
		"nocache": {"true"},
		"v":       {strconv.FormatInt(now.UnixNano(), 36)},
	}
	req, err := http.NewRequestWithContext(ctx, "GET", cl.dataURL()+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Expires", "0")
	// Setting it disables the transparent decompression of net/http.
	req.Header.Set("Accept-Encoding", "gzip")
	start := time.Now()
	resp, err := cl.do(req, "fetch", limit)
	if err != nil {
		cl.logger.Warn("fetch", "url", req.URL.String(), "error", err)
		return nil, err
	}
	defer resp.Body.Close()
	b, err := cl.readBody(resp, "fetch", limit)
	if err != nil {
		return nil, err
	}
	cl.logger.Debug("fetch", "file", cl.cfg.FileName, "size", len(b), "dur", time.Since(start))
	return b, nil
}

// Load fetches and decodes the workbook.
func (cl *Client) Load(ctx context.Context) (*sheetedit.Workbook, error) {
	b, err := cl.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	wb, err := xlsx.Decode(b)
	if err != nil {
		var de *sheetedit.DecodeError
		if errors.As(err, &de) {
			de.FileName = cl.cfg.FileName
			return nil, de
		}
		return nil, &sheetedit.DecodeError{FileName: cl.cfg.FileName, Err: err}
	}
	wb.FileName = cl.cfg.FileName
	return wb, nil
}

// Response of the save endpoint.
type Response struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	FileSize  int64  `json:"fileSize,omitempty"`
	SavedSize int64  `json:"savedSize,omitempty"`
}

// Receipt of a successful save.
type Receipt struct {
	SavedAt time.Time
	Size    int64
	Message string
	// URL of the copy in the external storage, if there is one.
	URL string
	// Warnings are the problems found after the save succeeded,
	// each a *sheetedit.VerificationWarning.
	Warnings []error
}

// Post uploads the encoded workbook to the save endpoint.
func (cl *Client) Post(ctx context.Context, data []byte) (Response, error) {
	var resp Response
	ctx, cancel, limit := cl.withTimeout(ctx)
	defer cancel()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", cl.cfg.FileName)
	if err != nil {
		return resp, err
	}
	if _, err = part.Write(data); err != nil {
		return resp, err
	}
	if err = mw.Close(); err != nil {
		return resp, err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", cl.url("/api/save-excel"), &buf)
	if err != nil {
		return resp, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	hr, err := cl.do(req, "save", limit)
	if err != nil {
		return resp, err
	}
	defer hr.Body.Close()
	b, err := cl.readBody(hr, "save", limit)
	if err != nil {
		return resp, err
	}
	if err = json.Unmarshal(b, &resp); err != nil {
		return resp, &sheetedit.TransportError{Op: "save", URL: req.URL.String(), StatusCode: hr.StatusCode,
			Body: excerpt(b), Err: fmt.Errorf("parse response: %w", err)}
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = resp.Message
		}
		if msg == "" {
			msg = "server reported failure"
		}
		return resp, &sheetedit.TransportError{Op: "save", URL: req.URL.String(), StatusCode: hr.StatusCode,
			Body: excerpt(b), Err: errors.New(msg)}
	}
	return resp, nil
}

func excerpt(b []byte) string {
	if len(b) > 256 {
		b = b[:256]
	}
	return strings.TrimSpace(string(b))
}

// Save encodes and uploads the workbook.
//
// After the server accepted it, the workbook is copied to the external storage
// and the server's health is checked; problems of these are reported as warnings
// in the Receipt, they do not fail the save.
func (cl *Client) Save(ctx context.Context, wb *sheetedit.Workbook) (*Receipt, error) {
	data, err := xlsx.Encode(wb)
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	start := time.Now()
	resp, err := cl.Post(ctx, data)
	if err != nil {
		cl.logger.Error("save", "file", cl.cfg.FileName, "size", len(data), "error", err)
		return nil, err
	}
	rcpt := Receipt{SavedAt: cl.now(), Size: int64(len(data)), Message: resp.Message}
	cl.logger.Info("save", "file", cl.cfg.FileName, "size", len(data),
		"fileSize", resp.FileSize, "savedSize", resp.SavedSize, "dur", time.Since(start))

	if cl.uploader != nil {
		if rcpt.URL, err = cl.uploader.Upload(ctx, cl.cfg.FileName, data); err != nil {
			rcpt.Warnings = append(rcpt.Warnings, cl.warn("upload", err))
		} else {
			cl.logger.Info("upload", "url", rcpt.URL)
		}
	}
	if err = sleep(ctx, cl.cfg.VerifyDelay); err == nil {
		err = cl.verifySaved(ctx, rcpt.Size)
	}
	if err != nil {
		rcpt.Warnings = append(rcpt.Warnings, cl.warn("verify", err))
	}
	return &rcpt, nil
}

// Reconcile waits for the saved file of the given size to settle,
// then loads what the server stored.
// Any error is a *sheetedit.VerificationWarning.
func (cl *Client) Reconcile(ctx context.Context, size int64) (*sheetedit.Workbook, error) {
	if err := cl.settler.Settle(ctx, cl, size); err != nil {
		return nil, cl.warn("settle", err)
	}
	wb, err := cl.Load(ctx)
	if err != nil {
		return nil, cl.warn("reconcile", err)
	}
	cl.logger.Debug("reconcile", "sheets", len(wb.Sheets))
	return wb, nil
}

func (cl *Client) warn(op string, err error) error {
	cl.logger.Warn(op, "error", err)
	return &sheetedit.VerificationWarning{Op: op, Err: err}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
