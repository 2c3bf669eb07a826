package authorization

// GlobalDomain is the reserved policy domain for tenant-less entities.
// Rules in the global domain are visible to every request; rules in any
// other domain are visible only to requests for that same domain. This is
// the sole tenant-isolation mechanism: cross-tenant assignment is permitted
// administratively and neutralized here at evaluation time.
const GlobalDomain = "*"

// DomainFor maps a tenant identifier to its policy domain. An empty tenant
// resolves to the global domain.
func DomainFor(tenantID string) string {
	if tenantID == "" {
		return GlobalDomain
	}
	return tenantID
}

// DomainVisible reports whether a rule stored in ruleDomain applies to a
// request evaluated in requestDomain.
func DomainVisible(ruleDomain string, requestDomain string) bool {
	return ruleDomain == requestDomain || ruleDomain == GlobalDomain
}
