// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/DataDog/callmatch/internal/report"
	"github.com/DataDog/callmatch/internal/rules"
	"github.com/DataDog/callmatch/internal/scan"
)

var Scan = &cli.Command{
	Name:      "scan",
	Usage:     "Reports the invocation sites of Go packages matched by a rule set. Exits with status 1 when there are findings.",
	ArgsUsage: "[packages...]",
	Flags: []cli.Flag{
		rulesFlag,
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "output format (text, json or yaml)",
			Value:   string(report.FormatText),
		},
		&cli.StringFlag{
			Name:    "dir",
			Aliases: []string{"C"},
			Usage:   "directory to load packages from (defaults to the working directory)",
		},
		&cli.BoolFlag{
			Name:  "tests",
			Usage: "also scan test files",
		},
		&cli.StringFlag{
			Name:  "baseline",
			Usage: "text report of known findings, which are not reported again",
		},
		&cli.StringFlag{
			Name:  "filter",
			Usage: "only report findings of rules whose ID matches this regular expression",
		},
		&cli.IntFlag{
			Name:    "concurrency",
			Aliases: []string{"j"},
			Usage:   "maximum number of files processed in parallel (defaults to GOMAXPROCS)",
		},
	},
	Action: func(clictx *cli.Context) error {
		ctx := clictx.Context
		log := zerolog.Ctx(ctx)

		format, err := report.ParseFormat(clictx.String("format"))
		if err != nil {
			return cli.Exit(err, 2)
		}

		rs, err := rules.LoadFile(ctx, clictx.String("rules"))
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to load rules: %v", err), 2)
		}

		dir := clictx.String("dir")
		if dir == "" {
			if dir, err = os.Getwd(); err != nil {
				return err
			}
		}
		if dir, err = filepath.Abs(dir); err != nil {
			return err
		}

		patterns := clictx.Args().Slice()
		if len(patterns) == 0 {
			patterns = []string{"./..."}
		}

		scanner := scan.Scanner{
			Rules:       rs,
			Dir:         dir,
			Tests:       clictx.Bool("tests"),
			Concurrency: clictx.Int("concurrency"),
		}
		findings, err := scanner.Run(ctx, patterns...)
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to scan packages: %v", err), 2)
		}

		rp := report.Report{Findings: findings}.RelativeTo(dir)
		if filter := clictx.String("filter"); filter != "" {
			if rp, err = rp.WithFilter(filter); err != nil {
				return cli.Exit(err, 2)
			}
		}
		if path := clictx.String("baseline"); path != "" {
			file, err := os.Open(path)
			if err != nil {
				return cli.Exit(fmt.Sprintf("failed to open baseline: %v", err), 2)
			}
			defer file.Close()
			if rp, err = rp.WithoutBaseline(ctx, file); err != nil {
				return cli.Exit(err, 2)
			}
		}

		out := clictx.App.Writer
		if err := rp.Write(out, format, format == report.FormatText && isTerminal(out)); err != nil {
			return err
		}

		stderr := errWriter(clictx)
		if _, err := fmt.Fprintln(stderr, rp.Summary(isTerminal(stderr))); err != nil {
			log.Debug().Err(err).Msg("Failed to print summary")
		}

		if rp.Len() > 0 {
			return cli.Exit("", 1)
		}
		return nil
	},
}
