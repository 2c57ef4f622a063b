// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package matcher

import (
	"fmt"
	"strings"

	"github.com/DataDog/callmatch/internal/fingerprint"
	"github.com/DataDog/callmatch/semantic"
)

// List matches sites that match any of its members. Members are evaluated in
// order, and evaluation stops at the first match.
type List struct {
	members []Matcher
}

var _ Matcher = (*List)(nil)

// Union combines the provided matchers. Builders are built, and the first
// configuration error encountered is returned. Once combined, the members can
// no longer be configured.
func Union(matchers ...Matcher) (*List, error) {
	members := make([]Matcher, 0, len(matchers))
	for idx, m := range matchers {
		if isNil(m) {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("member %d of union is nil", idx)}
		}
		switch m := m.(type) {
		case Builder:
			spec, err := m.Build()
			if err != nil {
				return nil, err
			}
			members = append(members, spec)
		case *Builder:
			spec, err := m.Build()
			if err != nil {
				return nil, err
			}
			members = append(members, spec)
		default:
			members = append(members, m)
		}
	}
	return &List{members: members}, nil
}

func isNil(m Matcher) bool {
	switch m := m.(type) {
	case nil:
		return true
	case *Builder:
		return m == nil
	case *Spec:
		return m == nil
	case *List:
		return m == nil
	default:
		return false
	}
}

// Or is the same as [Union], except it panics in case of an error.
func Or(matchers ...Matcher) *List {
	list, err := Union(matchers...)
	if err != nil {
		panic(err)
	}
	return list
}

// Empty returns a matcher that never matches.
func Empty() *List {
	return &List{}
}

// Len returns the number of members in this list.
func (l *List) Len() int {
	return len(l.members)
}

// Members returns the members of this list, in evaluation order.
func (l *List) Members() []Matcher {
	return clone(l.members)
}

func (l *List) Matches(site Site) bool {
	for _, m := range l.members {
		if m.Matches(site) {
			return true
		}
	}
	return false
}

func (l *List) MatchesSymbol(sym semantic.Symbol) bool {
	for _, m := range l.members {
		if m.MatchesSymbol(sym) {
			return true
		}
	}
	return false
}

func (l *List) String() string {
	if len(l.members) == 0 {
		return "none"
	}
	parts := make([]string, len(l.members))
	for i, m := range l.members {
		parts[i] = m.String()
	}
	return "any of [" + strings.Join(parts, ", ") + "]"
}

func (l *List) Hash(h *fingerprint.Hasher) error {
	members := make(fingerprint.List[fingerprint.Hashable], len(l.members))
	for i, m := range l.members {
		hashable, ok := m.(fingerprint.Hashable)
		if !ok {
			return fmt.Errorf("matcher %s (%T) cannot be fingerprinted", m, m)
		}
		members[i] = hashable
	}
	return h.Named("one-of", members)
}
