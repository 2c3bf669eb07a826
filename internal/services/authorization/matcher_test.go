package authorization

import "testing"

func TestMatcher_Match(t *testing.T) {
	tests := []struct {
		name         string
		regexEnabled bool
		value        string
		pattern      string
		want         bool
	}{
		{
			name:    "exact match",
			value:   "/docs/readme",
			pattern: "/docs/readme",
			want:    true,
		},
		{
			name:    "exact mismatch without wildcard",
			value:   "/docs/readme",
			pattern: "/docs/other",
			want:    false,
		},
		{
			name:    "glob matches within segment",
			value:   "/docs/readme",
			pattern: "/docs/*",
			want:    true,
		},
		{
			name:    "glob matches across segments",
			value:   "/docs/a/b/c",
			pattern: "/docs/*",
			want:    true,
		},
		{
			name:    "glob rejects different prefix",
			value:   "/files/readme",
			pattern: "/docs/*",
			want:    false,
		},
		{
			name:    "bare star matches everything",
			value:   "anything",
			pattern: "*",
			want:    true,
		},
		{
			name:    "glob matches the prefix itself",
			value:   "/docs/",
			pattern: "/docs/*",
			want:    true,
		},
		{
			name:         "regex disabled by default",
			regexEnabled: false,
			value:        "/docs/123",
			pattern:      "/docs/[0-9]+",
			want:         false,
		},
		{
			name:         "regex matches when enabled",
			regexEnabled: true,
			value:        "/docs/123",
			pattern:      "/docs/[0-9]+",
			want:         true,
		},
		{
			name:         "regex is anchored to the whole value",
			regexEnabled: true,
			value:        "/docs/123/extra",
			pattern:      "/docs/[0-9]+",
			want:         false,
		},
		{
			name:         "invalid regex never matches",
			regexEnabled: true,
			value:        "/docs/123",
			pattern:      "/docs/[",
			want:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMatcher(nil, tt.regexEnabled)
			if got := m.Match(tt.value, tt.pattern); got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.value, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestMatcher_MatchPriority(t *testing.T) {
	// An exact literal containing regex metacharacters must match itself
	// before any later strategy gets a chance to misinterpret it.
	m := NewMatcher(nil, true)
	if !m.Match("/docs/[draft]", "/docs/[draft]") {
		t.Error("exact literal with metacharacters should match itself")
	}
}

func TestMatcher_ObjectFor(t *testing.T) {
	m := NewMatcher(map[string]string{
		"doc":    "/docs/*",
		"report": "/reports/[0-9]+",
	}, true)

	tests := []struct {
		name     string
		resource string
		want     string
	}{
		{"configured type translates", "doc", "/docs/*"},
		{"second configured type translates", "report", "/reports/[0-9]+"},
		{"unknown type passes through", "/adhoc/path", "/adhoc/path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.ObjectFor(tt.resource); got != tt.want {
				t.Errorf("ObjectFor(%q) = %q, want %q", tt.resource, got, tt.want)
			}
		})
	}
}

func TestMatcher_RegexCacheReuse(t *testing.T) {
	m := NewMatcher(nil, true)
	for i := 0; i < 3; i++ {
		if !m.Match("/docs/42", "/docs/[0-9]+") {
			t.Fatal("cached regex should keep matching")
		}
	}
	if m.Match("/docs/42", "/docs/[") {
		t.Error("cached invalid regex should keep failing")
	}
}
