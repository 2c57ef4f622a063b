// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/DataDog/callmatch/internal/rules"
)

var Validate = &cli.Command{
	Name:      "validate",
	Usage:     "Checks rule set files, and prints the number of rules and the fingerprint of each",
	ArgsUsage: "<rules.yml>...",
	Args:      true,
	Action: func(clictx *cli.Context) error {
		if clictx.NArg() == 0 {
			return cli.ShowSubcommandHelp(clictx)
		}

		var errs []error
		for _, path := range clictx.Args().Slice() {
			rs, err := rules.LoadFile(clictx.Context, path)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			fp, err := rs.Fingerprint()
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", path, err))
				continue
			}
			if _, err := fmt.Fprintf(clictx.App.Writer, "%s: %d rules (%s)\n", path, rs.Len(), fp); err != nil {
				return err
			}
		}

		if err := errors.Join(errs...); err != nil {
			return cli.Exit(err, 1)
		}
		return nil
	},
}
