package authorization

import (
	"regexp"
	"strings"
	"sync"
)

// Matcher decides whether a requested resource satisfies a policy object
// pattern. Strategies are tried in a fixed priority order: exact literal
// equality, then glob (a '*' matches any suffix of path segments), then
// regular expression if enabled at construction. The first strategy to
// match wins; strategy selection is fixed when the matcher is built, never
// looked up at evaluation time.
type Matcher struct {
	regexEnabled bool
	typePatterns map[string]string

	mu      sync.RWMutex
	regexes map[string]*regexp.Regexp // compiled pattern cache; nil entry = invalid pattern
}

// NewMatcher creates a Matcher. typePatterns is the static resource-type to
// object-pattern table applied at grant time (e.g. {"doc": "/docs/*"}); it
// is copied and not mutable afterwards.
func NewMatcher(typePatterns map[string]string, regexEnabled bool) *Matcher {
	patterns := make(map[string]string, len(typePatterns))
	for resourceType, pattern := range typePatterns {
		patterns[resourceType] = pattern
	}
	return &Matcher{
		regexEnabled: regexEnabled,
		typePatterns: patterns,
		regexes:      make(map[string]*regexp.Regexp),
	}
}

// ObjectFor translates a resource type through the type-pattern table.
// Types without a configured pattern are stored as-is, so all grants for a
// configured type share one object pattern.
func (m *Matcher) ObjectFor(resource string) string {
	if pattern, ok := m.typePatterns[resource]; ok {
		return pattern
	}
	return resource
}

// Match reports whether value satisfies pattern using the strategy chain.
func (m *Matcher) Match(value string, pattern string) bool {
	if value == pattern {
		return true
	}
	if globMatch(value, pattern) {
		return true
	}
	if m.regexEnabled && m.regexMatch(value, pattern) {
		return true
	}
	return false
}

// globMatch implements glob matching where '*' matches any suffix,
// including across path segment boundaries: "/docs/*" matches "/docs/a"
// and "/docs/a/b", and "*" matches everything.
func globMatch(value string, pattern string) bool {
	idx := strings.Index(pattern, "*")
	if idx < 0 {
		return value == pattern
	}
	if len(value) >= idx {
		return value[:idx] == pattern[:idx]
	}
	return value == pattern[:idx]
}

// regexMatch anchors the pattern and matches the whole value. Compiled
// expressions are cached; patterns that fail to compile never match.
func (m *Matcher) regexMatch(value string, pattern string) bool {
	m.mu.RLock()
	re, ok := m.regexes[pattern]
	m.mu.RUnlock()

	if !ok {
		compiled, err := regexp.Compile("^" + pattern + "$")
		if err != nil {
			compiled = nil
		}
		m.mu.Lock()
		m.regexes[pattern] = compiled
		m.mu.Unlock()
		re = compiled
	}

	if re == nil {
		return false
	}
	return re.MatchString(value)
}
