// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package rules loads method matching rules from YAML documents.
//
//	rules:
//	  - id: string-getbytes
//	    message: Use an explicit charset
//	    kinds: [call]
//	    match:
//	      type: java.lang.String
//	      name: getBytes
//	      parameters: none
//	  - id: file-checks
//	    match:
//	      one-of:
//	        - type: { subtype: java.io.File }
//	          name: { prefix: is }
//	          parameters: none
//	        - type: { any: true }
//	          name: [exists, canRead]
//	          parameters: any
package rules

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/DataDog/callmatch/internal/fingerprint"
	"github.com/DataDog/callmatch/internal/yaml"
	"github.com/DataDog/callmatch/matcher"
)

// Rule associates a matcher with the diagnostic reported for matching sites.
type Rule struct {
	// ID uniquely identifies the rule within its rule set.
	ID string
	// Message is reported for every matching site.
	Message string
	// Kinds restricts the site kinds the rule applies to. All kinds are
	// considered when empty.
	Kinds []matcher.SiteKind
	// Matcher identifies the matching methods.
	Matcher matcher.Matcher
}

// AppliesTo reports whether the rule considers sites of the given kind.
func (r *Rule) AppliesTo(kind matcher.SiteKind) bool {
	if len(r.Kinds) == 0 {
		return true
	}
	for _, k := range r.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Matches reports whether the site is reported by this rule.
func (r *Rule) Matches(site matcher.Site) bool {
	return site != nil && r.AppliesTo(site.Kind()) && r.Matcher.Matches(site)
}

func (r *Rule) Hash(h *fingerprint.Hasher) error {
	m, ok := r.Matcher.(fingerprint.Hashable)
	if !ok {
		return fmt.Errorf("rule %q: matcher %T cannot be fingerprinted", r.ID, r.Matcher)
	}
	return h.Named(
		"rule",
		fingerprint.String(r.ID),
		fingerprint.String(r.Message),
		fingerprint.Cast(r.Kinds, func(k matcher.SiteKind) fingerprint.String { return fingerprint.String(k.String()) }),
		m,
	)
}

// RuleSet is an ordered list of rules.
type RuleSet struct {
	Rules []*Rule
}

// Len returns the number of rules in the set.
func (rs *RuleSet) Len() int {
	return len(rs.Rules)
}

// Lookup returns the rule with the given ID, if any.
func (rs *RuleSet) Lookup(id string) *Rule {
	for _, r := range rs.Rules {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (rs *RuleSet) Hash(h *fingerprint.Hasher) error {
	return h.Named("rule-set", fingerprint.List[*Rule](rs.Rules))
}

// Fingerprint returns a stable digest of the rule set, which changes whenever
// any of the rules does.
func (rs *RuleSet) Fingerprint() (string, error) {
	return fingerprint.Fingerprint(rs)
}

// Load validates and decodes a YAML rule set.
func Load(ctx context.Context, rd io.Reader) (*RuleSet, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}

	if err := Validate(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("validating rules: %w", err)
	}

	var rs RuleSet
	if err := yaml.UnmarshalContext(ctx, bytes.NewReader(data), &rs); err != nil {
		return nil, fmt.Errorf("decoding rules: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Int("rules", rs.Len()).Msg("Loaded rule set")
	return &rs, nil
}

// LoadFile loads the rule set stored in the named file.
func LoadFile(ctx context.Context, filename string) (*RuleSet, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	log := zerolog.Ctx(ctx).With().Str("rules", filename).Logger()
	rs, err := Load(log.WithContext(ctx), file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return rs, nil
}
