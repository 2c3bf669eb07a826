package authorization

import "testing"

func TestDomainFor(t *testing.T) {
	tests := []struct {
		name     string
		tenantID string
		want     string
	}{
		{"empty tenant maps to global domain", "", GlobalDomain},
		{"tenant maps to itself", "tenant-a", "tenant-a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DomainFor(tt.tenantID); got != tt.want {
				t.Errorf("DomainFor(%q) = %q, want %q", tt.tenantID, got, tt.want)
			}
		})
	}
}

func TestDomainVisible(t *testing.T) {
	tests := []struct {
		name          string
		ruleDomain    string
		requestDomain string
		want          bool
	}{
		{"same tenant visible", "tenant-a", "tenant-a", true},
		{"different tenant hidden", "tenant-a", "tenant-b", false},
		{"global rule visible to tenant", GlobalDomain, "tenant-a", true},
		{"global rule visible to global request", GlobalDomain, GlobalDomain, true},
		{"tenant rule hidden from global request", "tenant-a", GlobalDomain, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DomainVisible(tt.ruleDomain, tt.requestDomain); got != tt.want {
				t.Errorf("DomainVisible(%q, %q) = %v, want %v", tt.ruleDomain, tt.requestDomain, got, tt.want)
			}
		})
	}
}
