// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package report renders scan findings, and compares them with a baseline
// report.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/DataDog/callmatch/internal/scan"
	"github.com/DataDog/callmatch/internal/yaml"
)

// Format is an output format for reports.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatJSON, FormatYAML}

// ParseFormat returns the format with the given name.
func ParseFormat(name string) (Format, error) {
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported report format %q (expected one of text, json, yaml)", name)
}

type Report struct {
	Findings []scan.Finding `json:"findings" yaml:"findings"`
}

// Len returns the number of findings in the report.
func (r Report) Len() int {
	return len(r.Findings)
}

// Rules returns the number of distinct rules with findings.
func (r Report) Rules() int {
	ids := make(map[string]struct{}, len(r.Findings))
	for _, f := range r.Findings {
		ids[f.Rule] = struct{}{}
	}
	return len(ids)
}

// WithFilter keeps the findings whose rule ID matches a regex pattern.
func (r Report) WithFilter(regex string) (Report, error) {
	cmpRegex, err := regexp.Compile(regex)
	if err != nil {
		return Report{}, fmt.Errorf("invalid regex %q: %w", regex, err)
	}

	var filtered []scan.Finding
	for _, f := range r.Findings {
		if cmpRegex.MatchString(f.Rule) {
			filtered = append(filtered, f)
		}
	}
	return Report{Findings: filtered}, nil
}

// RelativeTo rewrites the file paths of findings located under dir to be
// relative to it.
func (r Report) RelativeTo(dir string) Report {
	res := Report{Findings: make([]scan.Finding, len(r.Findings))}
	for i, f := range r.Findings {
		if rel, err := filepath.Rel(dir, f.File); err == nil && !strings.HasPrefix(rel, "..") {
			f.File = filepath.ToSlash(rel)
		}
		res.Findings[i] = f
	}
	return res
}

// Write renders the report in the requested format. Colors are only used by
// the text format.
func (r Report) Write(w io.Writer, format Format, color bool) error {
	if r.Findings == nil {
		r.Findings = []scan.Finding{}
	}

	switch format {
	case FormatText:
		return r.WriteText(w, color)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		return yaml.Encode(w, r)
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}

type styles struct {
	position lipgloss.Style
	rule     lipgloss.Style
	target   lipgloss.Style
}

func newStyles() styles {
	return styles{
		position: lipgloss.NewStyle().Faint(true),
		rule:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3)),
		target:   lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(4)),
	}
}

// WriteText writes one line per finding. Without colors, the output is
// suitable for use as a baseline.
func (r Report) WriteText(w io.Writer, color bool) error {
	if !color {
		for _, f := range r.Findings {
			if _, err := fmt.Fprintln(w, f.String()); err != nil {
				return err
			}
		}
		return nil
	}

	style := newStyles()
	for _, f := range r.Findings {
		var sb strings.Builder
		_, _ = sb.WriteString(style.position.Render(f.Position() + ":"))
		_, _ = sb.WriteRune(' ')
		_, _ = sb.WriteString(style.rule.Render("[" + f.Rule + "]"))
		if f.Message != "" {
			_, _ = sb.WriteRune(' ')
			_, _ = sb.WriteString(f.Message)
		}
		desc := f.Kind
		if f.Target != "" {
			desc += " " + style.target.Render(f.Target)
		}
		_, _ = sb.WriteString(" (" + desc + ")")
		if _, err := fmt.Fprintln(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

// Summary returns a one-line description of the report.
func (r Report) Summary(color bool) string {
	if r.Len() == 0 {
		return "No findings."
	}
	style := lipgloss.NewStyle()
	if color {
		style = style.Bold(true).Foreground(lipgloss.ANSIColor(1))
	}
	return fmt.Sprintf("%s from %s.", style.Render(plural(r.Len(), "finding")), plural(r.Rules(), "rule"))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// WithoutBaseline removes the findings already present in a baseline text
// report. The comparison is a line diff, so a finding is only considered new
// when its rendered line is absent from the baseline.
func (r Report) WithoutBaseline(ctx context.Context, baseline io.Reader) (Report, error) {
	data, err := io.ReadAll(baseline)
	if err != nil {
		return Report{}, fmt.Errorf("reading baseline: %w", err)
	}

	var current strings.Builder
	if err := r.WriteText(&current, false); err != nil {
		return Report{}, err
	}

	dmp := diffmatchpatch.New()
	baselineRunes, currentRunes, lines := dmp.DiffLinesToRunes(normalize(string(data)), current.String())
	fragments := dmp.DiffMainRunes(baselineRunes, currentRunes, false)
	fragments = dmp.DiffCharsToLines(fragments, lines)

	added := make(map[string]int)
	resolved := 0
	for _, frag := range fragments {
		switch frag.Type {
		case diffmatchpatch.DiffInsert:
			for _, line := range splitLines(frag.Text) {
				added[line]++
			}
		case diffmatchpatch.DiffDelete:
			resolved += len(splitLines(frag.Text))
		}
	}

	var res Report
	for _, f := range r.Findings {
		line := f.String()
		if added[line] == 0 {
			continue
		}
		added[line]--
		res.Findings = append(res.Findings, f)
	}

	zerolog.Ctx(ctx).Debug().
		Int("baseline", len(r.Findings)-len(res.Findings)).
		Int("new", len(res.Findings)).
		Int("resolved", resolved).
		Msg("Compared findings with baseline")
	return res, nil
}

func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
