// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package scan loads Go packages and reports the invocation sites matched by a
// rule set.
package scan

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"go/ast"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"

	"github.com/DataDog/callmatch/internal/rules"
	"github.com/DataDog/callmatch/internal/semantic/gotypes"
	"github.com/DataDog/callmatch/internal/sites"
)

// LoadMode is the information required from [packages.Load] to extract and
// match invocation sites.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports |
	packages.NeedDeps

// Finding is an invocation site matched by a rule.
type Finding struct {
	Rule    string `json:"rule" yaml:"rule"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	Kind    string `json:"kind" yaml:"kind"`
	File    string `json:"file" yaml:"file"`
	Line    int    `json:"line" yaml:"line"`
	Column  int    `json:"column" yaml:"column"`
	Target  string `json:"target,omitempty" yaml:"target,omitempty"`
}

// Position returns the "file:line:column" location of the finding.
func (f Finding) Position() string {
	return fmt.Sprintf("%s:%d:%d", f.File, f.Line, f.Column)
}

// String renders the finding on a single line.
func (f Finding) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: [%s]", f.Position(), f.Rule)
	if f.Message != "" {
		sb.WriteByte(' ')
		sb.WriteString(f.Message)
	}
	fmt.Fprintf(&sb, " (%s", f.Kind)
	if f.Target != "" {
		sb.WriteByte(' ')
		sb.WriteString(f.Target)
	}
	sb.WriteByte(')')
	return sb.String()
}

// Compare orders findings by position, then by rule.
func Compare(a, b Finding) int {
	return cmp.Or(
		cmp.Compare(a.File, b.File),
		cmp.Compare(a.Line, b.Line),
		cmp.Compare(a.Column, b.Column),
		cmp.Compare(a.Rule, b.Rule),
		cmp.Compare(a.Kind, b.Kind),
	)
}

// Scanner evaluates a rule set against Go packages.
type Scanner struct {
	// Rules is the rule set to evaluate.
	Rules *rules.RuleSet
	// Dir is the directory packages are loaded from. The current working
	// directory is used when blank.
	Dir string
	// Env is the environment used by the go command. The current process'
	// environment is used when nil.
	Env []string
	// Tests includes the test files of the loaded packages.
	Tests bool
	// Concurrency is the maximum number of files processed in parallel. It
	// defaults to [runtime.GOMAXPROCS].
	Concurrency int
}

// ErrNoPackages is returned when the patterns do not match any package.
var ErrNoPackages = errors.New("no packages matched the patterns")

// Run loads the packages matching the patterns and returns all findings,
// sorted by position. Packages with type errors are still scanned, but sites
// involving unresolved types are not reported.
func (s *Scanner) Run(ctx context.Context, patterns ...string) ([]Finding, error) {
	if s.Rules == nil {
		return nil, errors.New("no rules to evaluate")
	}
	log := zerolog.Ctx(ctx)

	cfg := &packages.Config{
		Context: ctx,
		Mode:    LoadMode,
		Dir:     s.Dir,
		Env:     s.Env,
		Tests:   s.Tests,
		Logf: func(format string, args ...any) {
			log.Trace().Msgf(format, args...)
		},
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, ErrNoPackages
	}
	log.Debug().Int("packages", len(pkgs)).Strs("patterns", patterns).Msg("Loaded packages")

	return s.Packages(ctx, gotypes.FromPackages(pkgs), pkgs)
}

// Packages returns the findings in the files of the provided packages, which
// must have been loaded with at least [LoadMode].
func (s *Scanner) Packages(ctx context.Context, universe *gotypes.Universe, pkgs []*packages.Package) ([]Finding, error) {
	log := zerolog.Ctx(ctx)

	limit := s.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	var (
		mu       sync.Mutex
		findings []Finding
		seen     = make(map[Finding]struct{})
	)

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(limit)

	for _, pkg := range pkgs {
		for _, err := range pkg.Errors {
			log.Warn().Str("package", pkg.PkgPath).Err(err).Msg("Package has errors; some sites may not be resolved")
		}
		if pkg.TypesInfo == nil {
			continue
		}

		extractor := sites.New(universe, pkg)
		for _, file := range pkg.Syntax {
			group.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				found, err := s.file(extractor, file)
				if err != nil {
					return err
				}

				mu.Lock()
				defer mu.Unlock()
				for _, f := range found {
					// With tests enabled, files are shared by a package and its
					// test variant.
					if _, dup := seen[f]; dup {
						continue
					}
					seen[f] = struct{}{}
					findings = append(findings, f)
				}
				return nil
			})
		}
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(findings, Compare)
	log.Debug().Int("findings", len(findings)).Msg("Scan complete")
	return findings, nil
}

func (s *Scanner) file(extractor *sites.Extractor, file *ast.File) ([]Finding, error) {
	found, err := extractor.File(file)
	if err != nil {
		return nil, err
	}

	var findings []Finding
	for _, site := range found {
		for _, rule := range s.Rules.Rules {
			if !rule.Matches(site.Site) {
				continue
			}
			findings = append(findings, Finding{
				Rule:    rule.ID,
				Message: rule.Message,
				Kind:    site.Kind().String(),
				File:    site.Position.Filename,
				Line:    site.Position.Line,
				Column:  site.Position.Column,
				Target:  site.Target,
			})
		}
	}
	return findings, nil
}
