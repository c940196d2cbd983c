// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Command xlsxedit views and edits a workbook stored on a sheetedit server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/UNO-SOFT/zlog/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/peterbourgon/ff/v3/ffyaml"
	"golang.org/x/text/language"

	"github.com/UNO-SOFT/sheetedit"
	"github.com/UNO-SOFT/sheetedit/auth"
	"github.com/UNO-SOFT/sheetedit/editor"
	"github.com/UNO-SOFT/sheetedit/gateway"
	"github.com/UNO-SOFT/sheetedit/grid"
	"github.com/UNO-SOFT/sheetedit/store"
	"github.com/UNO-SOFT/sheetedit/tui"
)

var verbose zlog.VerboseVar
var logger = zlog.NewLogger(zlog.MaybeConsoleHandler(&verbose, os.Stderr)).SLog()

func main() {
	if err := Main(); err != nil {
		logger.Error("MAIN", "error", err)
		os.Exit(1)
	}
}

func Main() error {
	cfg := gateway.DefaultConfig()
	fs := flag.NewFlagSet("xlsxedit", flag.ContinueOnError)
	fs.Var(&verbose, "v", "logging verbosity")
	_ = fs.String("config", "", "config file (YAML)")
	fs.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "server base URL")
	fs.StringVar(&cfg.FileName, "file", cfg.FileName, "workbook file name on the server")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "timeout of one request")
	fs.DurationVar(&cfg.SettleDelay, "settle-delay", cfg.SettleDelay, "wait after save before reloading")
	fs.DurationVar(&cfg.VerifyDelay, "verify-delay", cfg.VerifyDelay, "wait after save before checking the server")
	fs.StringVar(&cfg.UploadURL, "upload-url", "", "copy each saved workbook to this storage URL")
	fs.StringVar(&cfg.UploadPrefix, "upload-prefix", cfg.UploadPrefix, "folder of the copies in the storage")
	flagSettlePoll := fs.Bool("settle-poll", false, "poll the server's health after save instead of a fixed delay")
	flagAdminHash := fs.String("admin-hash", "", "bcrypt hash of the admin password (see hash-password)")
	flagLang := fs.String("lang", "", "language of number formatting (default: from $LANG)")
	flagEnc := fs.String("charset", sheetedit.EncName, "csv charset name")

	var sess *editor.Session
	newSession := func() (*editor.Session, error) {
		options := []gateway.Option{gateway.WithLogger(logger)}
		if cfg.UploadURL != "" {
			options = append(options, gateway.WithUploader(gateway.HTTPUploader{
				BaseURL: cfg.UploadURL, Prefix: cfg.UploadPrefix,
			}))
		}
		if *flagSettlePoll {
			options = append(options, gateway.WithSettler(gateway.HealthPoll{Max: cfg.Timeout}))
		}
		gw := gateway.New(cfg, options...)

		var verifier auth.Verifier = auth.Deny
		if *flagAdminHash != "" {
			h, err := auth.ParseHash(*flagAdminHash)
			if err != nil {
				return nil, err
			}
			verifier = h
		}
		tag := editor.LanguageFromEnv()
		if *flagLang != "" {
			var err error
			if tag, err = language.Parse(*flagLang); err != nil {
				return nil, fmt.Errorf("%q: %w", *flagLang, err)
			}
		}
		sess = editor.New(store.New(store.WithLogger(logger)), gw,
			editor.WithVerifier(verifier),
			editor.WithRenderer(grid.NewRenderer(tag)),
			editor.WithLogger(logger),
		)
		return sess, nil
	}
	load := func(ctx context.Context) (*editor.Session, error) {
		s, err := newSession()
		if err != nil {
			return nil, err
		}
		if err = s.Load(ctx); err != nil {
			return s, err
		}
		return s, nil
	}
	defer func() {
		if sess != nil {
			sess.Close()
		}
	}()

	fsTUI := flag.NewFlagSet("tui", flag.ContinueOnError)
	flagLog := fsTUI.String("log", "", "log file (the screen is used by the grid)")
	tuiCmd := ffcli.Command{Name: "tui", ShortUsage: "tui [-log=file]", FlagSet: fsTUI,
		ShortHelp: "interactive grid",
		Exec: func(ctx context.Context, args []string) error {
			w := io.Discard
			if *flagLog != "" {
				fh, err := os.OpenFile(*flagLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
				if err != nil {
					return err
				}
				defer fh.Close()
				w = fh
			}
			logger = zlog.NewLogger(zlog.MaybeConsoleHandler(&verbose, w)).SLog()
			slog.SetDefault(logger)
			s, err := newSession()
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(tui.New(ctx, s), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	fsShow := flag.NewFlagSet("show", flag.ContinueOnError)
	flagSheet := fsShow.String("sheet", "", "sheet name or 1-based index (default: first)")
	flagFilter := fsShow.String("filter", "", "show only the rows containing this")
	showCmd := ffcli.Command{Name: "show", ShortUsage: "show [-sheet=name] [-filter=term]", FlagSet: fsShow,
		Exec: func(ctx context.Context, args []string) error {
			s, err := load(ctx)
			if err != nil {
				return err
			}
			if err = selectSheet(s, *flagSheet); err != nil {
				return err
			}
			s.SetFilter(*flagFilter)
			return s.Export(os.Stdout, editor.FormatCSV, *flagEnc)
		},
	}

	fsSet := flag.NewFlagSet("set", flag.ContinueOnError)
	flagSetSheet := fsSet.String("sheet", "", "sheet name or 1-based index (default: first)")
	setCmd := ffcli.Command{Name: "set", ShortUsage: "set [-sheet=name] <cell> <value> [<cell> <value>...]", FlagSet: fsSet,
		ShortHelp: "set cells, such as B1 42 or C1 =B1*2 (row 1 is the first under the header), then save",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 || len(args)%2 != 0 {
				return errors.New("cell-value pairs are required")
			}
			s, err := load(ctx)
			if err != nil {
				return err
			}
			if err = selectSheet(s, *flagSetSheet); err != nil {
				return err
			}
			for i := 0; i < len(args); i += 2 {
				row, col, err := parseCell(args[i])
				if err != nil {
					return err
				}
				if err = s.SetCell(row, col, args[i+1]); err != nil {
					return fmt.Errorf("%s: %w", args[i], err)
				}
			}
			return save(ctx, s)
		},
	}

	fsExport := flag.NewFlagSet("export", flag.ContinueOnError)
	flagFormat := fsExport.String("format", "", "xlsx, csv, html or pdf (default: from the output file name)")
	flagOut := fsExport.String("o", "", "output file name (default: stdout)")
	flagExportSheet := fsExport.String("sheet", "", "sheet name or 1-based index (default: first)")
	flagExportFilter := fsExport.String("filter", "", "export only the rows containing this")
	exportCmd := ffcli.Command{Name: "export", ShortUsage: "export [-format=xlsx|csv|html|pdf] [-o file]", FlagSet: fsExport,
		Exec: func(ctx context.Context, args []string) error {
			format := *flagFormat
			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(*flagOut), ".")
			}
			if format == "" {
				format = editor.FormatXLSX
			}
			s, err := load(ctx)
			if err != nil {
				return err
			}
			if err = selectSheet(s, *flagExportSheet); err != nil {
				return err
			}
			s.SetFilter(*flagExportFilter)
			if *flagOut == "" || *flagOut == "-" {
				return s.Export(os.Stdout, format, *flagEnc)
			}
			fh, err := os.Create(*flagOut)
			if err != nil {
				return err
			}
			if err = s.Export(fh, format, *flagEnc); err != nil {
				fh.Close()
				return err
			}
			return fh.Close()
		},
	}

	fsImport := flag.NewFlagSet("import", flag.ContinueOnError)
	flagPassword := fsImport.String("password", "", "admin password (default: $SHEETEDIT_PASSWORD)")
	importCmd := ffcli.Command{Name: "import", ShortUsage: "import [-password=pw] [sheetName:]file.csv...", FlagSet: fsImport,
		ShortHelp: "add the CSV files as new sheets, then save",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return errors.New("at least one CSV file is required")
			}
			s, err := load(ctx)
			if err != nil {
				return err
			}
			pw := *flagPassword
			if pw == "" {
				pw = os.Getenv("SHEETEDIT_PASSWORD")
			}
			if err = s.Login(pw); err != nil {
				return err
			}
			for i, fn := range args {
				sheetName := fmt.Sprintf("Sheet%d", s.Store().Len()+1)
				if j := strings.IndexByte(fn, ':'); j >= 0 {
					sheetName, fn = fn[:j], fn[j+1:]
				} else if fn != "" && fn != "-" {
					sheetName = strings.TrimSuffix(filepath.Base(fn), ".csv")
				}
				if err = importFile(s, sheetName, fn, *flagEnc); err != nil {
					return fmt.Errorf("%d. %q: %w", i+1, fn, err)
				}
			}
			return save(ctx, s)
		},
	}

	statusCmd := ffcli.Command{Name: "status", ShortUsage: "show the server status",
		Exec: func(ctx context.Context, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			cl := s.Gateway().(*gateway.Client)
			h, err := cl.Status(ctx)
			if err != nil {
				return err
			}
			ok, err := cl.Verify(ctx)
			if err != nil {
				logger.Warn("verify", "error", err)
			}
			fmt.Printf("status:      %s\nenvironment: %s\ndata dir:    %s (%d files)\nfile:        %s exists=%t size=%d readable=%t\n",
				h.Status, h.Environment, h.DataDir, len(h.FilesInDataDir),
				cfg.FileName, h.SampleFileExists, h.SampleFileSize, ok)
			return nil
		},
	}

	hashCmd := ffcli.Command{Name: "hash-password", ShortUsage: "hash-password <password>",
		ShortHelp: "print the bcrypt hash to be used as -admin-hash",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return errors.New("the password is required")
			}
			h, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Println(h)
			return nil
		},
	}

	app := ffcli.Command{Name: "xlsxedit", FlagSet: fs,
		Options: []ff.Option{
			ff.WithEnvVarPrefix("SHEETEDIT"),
			ff.WithConfigFileFlag("config"),
			ff.WithConfigFileParser(ffyaml.Parser),
			ff.WithAllowMissingConfigFile(true),
		},
		Subcommands: []*ffcli.Command{&tuiCmd, &showCmd, &setCmd, &exportCmd, &importCmd, &statusCmd, &hashCmd},
		Exec:        tuiCmd.Exec,
	}
	if err := app.Parse(os.Args[1:]); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return app.Run(ctx)
}

// selectSheet makes the sheet with the given name or 1-based index active.
func selectSheet(s *editor.Session, name string) error {
	if name == "" {
		return nil
	}
	for i, n := range s.Store().Names() {
		if n == name {
			return s.SetActive(i)
		}
	}
	if i, err := strconv.Atoi(name); err == nil && i >= 1 && i <= s.Store().Len() {
		return s.SetActive(i - 1)
	}
	return fmt.Errorf("sheet %q not found (have %q)", name, s.Store().Names())
}

// parseCell parses a cell reference such as B2 into 0-based row and column,
// numbering the data rows as formulas do: A1 is the first row under the header.
func parseCell(ref string) (row, col int, err error) {
	ref = strings.ToUpper(strings.TrimSpace(ref))
	i := strings.IndexAny(ref, "0123456789")
	if i <= 0 {
		return 0, 0, fmt.Errorf("%q: not a cell reference", ref)
	}
	if col, err = sheetedit.ColumnIndex(ref[:i]); err != nil {
		return 0, 0, fmt.Errorf("%q: %w", ref, err)
	}
	n, err := strconv.Atoi(ref[i:])
	if err != nil || n < 1 {
		return 0, 0, fmt.Errorf("%q: not a cell reference", ref)
	}
	return n - 1, col, nil
}

func importFile(s *editor.Session, sheetName, fn, encName string) error {
	r := io.Reader(os.Stdin)
	if fn != "" && fn != "-" {
		fh, err := os.Open(fn)
		if err != nil {
			return err
		}
		defer fh.Close()
		r = fh
	}
	return s.ImportCSV(r, sheetName, encName)
}

func save(ctx context.Context, s *editor.Session) error {
	start := time.Now()
	rcpt, err := s.Save(ctx)
	if err != nil {
		return err
	}
	for _, w := range rcpt.Warnings {
		logger.Warn("save", "warning", w)
	}
	logger.Info("saved", "file", s.Gateway().FileName(), "size", rcpt.Size, "url", rcpt.URL, "dur", time.Since(start))
	return nil
}
