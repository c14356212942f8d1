package auth

import (
	"path"
	"strings"
)

// Requirement states what a request needs to reach a route.
type Requirement int

const (
	RequireIdentity Requirement = iota
	Public
)

// Rule binds a path pattern to a requirement. A pattern ending in "/**"
// matches the prefix itself and everything below it; any other pattern is
// matched with path.Match.
type Rule struct {
	Pattern     string
	Requirement Requirement
}

// AccessPolicy is an ordered rule table evaluated first-match. Paths no rule
// matches require an identity.
type AccessPolicy struct {
	rules []Rule
}

// NewAccessPolicy copies rules so the table cannot change after construction.
func NewAccessPolicy(rules ...Rule) *AccessPolicy {
	return &AccessPolicy{rules: append([]Rule(nil), rules...)}
}

// DefaultAccessPolicy opens the auth endpoints and the health probe.
func DefaultAccessPolicy() *AccessPolicy {
	return NewAccessPolicy(
		Rule{Pattern: "/auth/**", Requirement: Public},
		Rule{Pattern: "/health", Requirement: Public},
	)
}

// Requirement returns the requirement of the first rule matching p.
func (p *AccessPolicy) Requirement(reqPath string) Requirement {
	clean := path.Clean("/" + reqPath)
	for _, rule := range p.rules {
		if matchPattern(rule.Pattern, clean) {
			return rule.Requirement
		}
	}
	return RequireIdentity
}

// IsAllowed reports whether a request for reqPath may proceed.
func (p *AccessPolicy) IsAllowed(reqPath string, hasIdentity bool) bool {
	if p.Requirement(reqPath) == Public {
		return true
	}
	return hasIdentity
}

func matchPattern(pattern, p string) bool {
	if base, ok := strings.CutSuffix(pattern, "/**"); ok {
		return p == base || strings.HasPrefix(p, base+"/")
	}
	matched, err := path.Match(pattern, p)
	return err == nil && matched
}
