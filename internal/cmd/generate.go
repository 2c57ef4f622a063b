// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/DataDog/callmatch/internal/rules"
)

var Generate = &cli.Command{
	Name:  "generate",
	Usage: "Generates Go source code declaring the matchers of a rule set",
	Flags: []cli.Flag{
		rulesFlag,
		&cli.StringFlag{
			Name:  "package",
			Usage: "name of the generated package",
			Value: "rules",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "file to write the generated code to (defaults to standard output)",
		},
	},
	Action: func(clictx *cli.Context) error {
		rs, err := rules.LoadFile(clictx.Context, clictx.String("rules"))
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to load rules: %v", err), 1)
		}

		file, err := rules.Generate(rs, clictx.String("package"))
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to generate code: %v", err), 1)
		}

		var out io.Writer = clictx.App.Writer
		if path := clictx.String("output"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		return file.Render(out)
	},
}
