// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Command callmatch reports the invocation sites of Go packages that match
// declarative method matching rules.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/DataDog/callmatch/internal/cmd"
	"github.com/DataDog/callmatch/internal/log"
	"github.com/DataDog/callmatch/internal/version"
)

func main() {
	var logCloser io.Closer

	app := &cli.App{
		Name:  "callmatch",
		Usage: "Match Go invocation sites against declarative method matchers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "minimum level of log messages (NONE, ERROR, WARN, INFO, DEBUG or TRACE)",
				EnvVars: []string{"CALLMATCH_LOG_LEVEL"},
				Value:   "WARN",
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "file to append log messages to; $PID expands to the process ID",
				EnvVars: []string{"CALLMATCH_LOG_FILE"},
			},
		},
		Before: func(clictx *cli.Context) error {
			logger, closer, err := log.New(log.Options{
				Level:   clictx.String("log-level"),
				File:    clictx.String("log-file"),
				Version: version.Tag(),
			}, os.Stderr)
			if err != nil {
				return cli.Exit(err, 2)
			}
			logCloser = closer
			clictx.Context = logger.WithContext(clictx.Context)
			return nil
		},
		After: func(*cli.Context) error {
			if logCloser == nil {
				return nil
			}
			return logCloser.Close()
		},
		Commands: []*cli.Command{
			cmd.Scan,
			cmd.Validate,
			cmd.Generate,
			cmd.Version,
		},
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
