// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package log configures the [zerolog.Logger] used by the command line tool.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Options controls where and what the logger writes.
type Options struct {
	// Level is the name of the minimum level of logged messages. Defaults to
	// WARN.
	Level string
	// File is the path of the file log entries are appended to. The "$PID"
	// variable expands to the current process ID. Entries are written to the
	// console writer when blank.
	File string
	// Version is added to the context of every entry.
	Version string
}

// New creates a logger according to the options. The returned closer releases
// the log file, if any.
func New(opts Options, console *os.File) (zerolog.Logger, io.Closer, error) {
	level := zerolog.WarnLevel
	if opts.Level != "" {
		var found bool
		if level, found = LevelNamed(opts.Level); !found {
			return zerolog.Nop(), nil, fmt.Errorf("invalid log level name %q", opts.Level)
		}
	}

	var (
		out     io.Writer
		closer  io.Closer = nopCloser{}
		withPID           = true
	)
	if opts.File != "" {
		filename := os.Expand(opts.File, func(name string) string {
			switch name {
			case "PID":
				withPID = false
				return strconv.Itoa(os.Getpid())
			default:
				return "$" + name
			}
		})

		// Try to create the parent directory, but ignore errors, if any.
		_ = os.MkdirAll(filepath.Dir(filename), 0o755)

		file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("unable to open log file %q: %w", opts.File, err)
		}
		out = &lockedWriter{file: file}
		closer = file
	} else {
		out = zerolog.ConsoleWriter{
			Out:     console,
			NoColor: !term.IsTerminal(int(console.Fd())),
		}
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if withPID {
		ctx = ctx.Int("pid", os.Getpid())
	}
	if opts.Version != "" {
		ctx = ctx.Str("callmatch", opts.Version)
	}
	return ctx.Logger(), closer, nil
}

// lockedWriter holds an advisory lock on the file for every write, so that
// lines from concurrent processes sharing a log file don't get mangled.
type lockedWriter struct {
	mu   sync.Mutex
	file *os.File
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := lock(w.file); err != nil {
		return 0, err
	}
	defer func() { _ = unlock(w.file) }()

	return w.file.Write(p)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
