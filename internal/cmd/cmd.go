// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package cmd holds the sub-commands of the callmatch command line tool.
package cmd

import (
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

var rulesFlag = &cli.StringFlag{
	Name:     "rules",
	Aliases:  []string{"r"},
	Usage:    "path to the YAML rule set",
	EnvVars:  []string{"CALLMATCH_RULES"},
	Required: true,
}

// isTerminal returns true if w is a terminal, in which case output may be
// styled.
func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func errWriter(clictx *cli.Context) io.Writer {
	if clictx.App.ErrWriter != nil {
		return clictx.App.ErrWriter
	}
	return os.Stderr
}
