// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0

// Resolver stage: assigns implicit tags to untagged nodes. Plain
// scalars resolve against an ordered pattern table; quoted and block
// scalars always resolve to !!str, since the style itself signals
// stringness. Collections resolve to !!seq or !!map.

package engine

import "regexp"

// Rule associates a regular expression with the tag its matches
// resolve to. First lists the bytes a matching value may start with.
// It is an index, not a filter: a rule is only tried when the value's
// first byte appears in First. The NUL byte in First marks a rule that
// also applies to the empty value.
type Rule struct {
	Tag   string
	First string
	Expr  *regexp.Regexp
}

// Resolver maps untagged nodes to tags. The rule table is fixed at
// construction, so a Resolver may be shared freely across concurrent
// loads and dumps.
type Resolver struct {
	rules   []Rule
	byFirst [256][]int
	empty   []int
}

// NewResolver builds a resolver trying rules in the given order; the
// first rule whose expression matches wins. Values no rule matches
// resolve to !!str.
func NewResolver(rules ...Rule) *Resolver {
	r := &Resolver{rules: rules}
	for i, rule := range rules {
		for j := 0; j < len(rule.First); j++ {
			c := rule.First[j]
			if c == 0 {
				r.empty = append(r.empty, i)
				continue
			}
			r.byFirst[c] = append(r.byFirst[c], i)
		}
	}
	return r
}

// Rules returns a copy of the table, in order. Useful as a base when
// constructing an extended resolver.
func (r *Resolver) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// Resolve returns the tag (short form) implied by a node's kind, value,
// and style. It is only meaningful for untagged nodes; explicit tags
// take precedence at the call sites.
func (r *Resolver) Resolve(kind Kind, value string, style ScalarStyle) string {
	switch kind {
	case SequenceNode:
		return seqTag
	case MappingNode:
		return mapTag
	}
	if style.Quoted() {
		return strTag
	}

	candidates := r.empty
	if value != "" {
		candidates = r.byFirst[value[0]]
	}
	for _, i := range candidates {
		if r.rules[i].Expr.MatchString(value) {
			return r.rules[i].Tag
		}
	}
	return strTag
}

// CoreRules returns the default implicit-typing table: the YAML 1.1
// core schema types plus the merge and value keys.
func CoreRules() []Rule {
	return []Rule{
		{
			Tag:   nullTag,
			First: "~nN\x00",
			Expr:  regexp.MustCompile(`^(?:~|null|Null|NULL|)$`),
		},
		{
			Tag:   boolTag,
			First: "yYnNtTfFoO",
			Expr: regexp.MustCompile(
				`^(?:yes|Yes|YES|no|No|NO|true|True|TRUE|false|False|FALSE|on|On|ON|off|Off|OFF)$`),
		},
		// Underscore digit separators are not accepted here; a custom
		// rule in front of the table can opt in.
		{
			Tag:   intTag,
			First: "-+0123456789",
			Expr: regexp.MustCompile(
				`^(?:[-+]?0b[0-1]+|[-+]?0[0-7]+|[-+]?(?:0|[1-9][0-9]*)|[-+]?0x[0-9a-fA-F]+|[-+]?[1-9][0-9]*(?::[0-5]?[0-9])+)$`),
		},
		{
			Tag:   floatTag,
			First: "-+0123456789.",
			Expr: regexp.MustCompile(
				`^(?:[-+]?(?:[0-9][0-9]*)\.[0-9]*(?:[eE][-+]?[0-9]+)?|\.[0-9]+(?:[eE][-+]?[0-9]+)?|[-+]?[0-9][0-9]*(?::[0-5]?[0-9])+\.[0-9]*|[-+]?\.(?:inf|Inf|INF)|\.(?:nan|NaN|NAN))$`),
		},
		{
			Tag:   mergeTag,
			First: "<",
			Expr:  regexp.MustCompile(`^(?:<<)$`),
		},
		{
			Tag:   valueTag,
			First: "=",
			Expr:  regexp.MustCompile(`^(?:=)$`),
		},
		{
			Tag:   timestampTag,
			First: "0123456789",
			Expr: regexp.MustCompile(
				`^(?:[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9]|[0-9][0-9][0-9][0-9]-[0-9][0-9]?-[0-9][0-9]?(?:[Tt]|[ \t]+)[0-9][0-9]?:[0-9][0-9]:[0-9][0-9](?:\.[0-9]*)?(?:[ \t]*(?:Z|[-+][0-9][0-9]?(?::[0-9][0-9])?))?)$`),
		},
	}
}

var coreResolver = NewResolver(CoreRules()...)
