package authorization

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/authone/authone/pkg/cache"
)

// EnforcerInterface defines the interface for access checks
type EnforcerInterface interface {
	Check(ctx context.Context, req *CheckRequest) (*CheckResponse, error)
}

// CheckRequest contains the parameters for an access check
type CheckRequest struct {
	AccountID string // Account being checked
	TenantID  string // Tenant context; empty = global domain
	Resource  string // Requested resource
	Action    string // Requested action
}

// CheckResponse contains the result of an access check
type CheckResponse struct {
	Allowed bool // Whether the account may perform the action
}

// Enforcer evaluates access checks against the store's current snapshot.
// Unknown accounts, tenants without rules, and any other absence of
// matching state resolve to a deny; only an unloaded snapshot surfaces as
// an error, and even then the result is a deny.
type Enforcer struct {
	store    *Store
	matcher  *Matcher
	cache    cache.Cache   // Optional cache for check results
	cacheTTL time.Duration // TTL for cached results
}

// NewEnforcer creates an Enforcer without result caching.
func NewEnforcer(store *Store, matcher *Matcher) *Enforcer {
	return &Enforcer{store: store, matcher: matcher}
}

// NewEnforcerWithCache creates an Enforcer that caches check results.
// Cache keys include the snapshot revision, so every policy mutation
// implicitly invalidates all cached decisions.
func NewEnforcerWithCache(store *Store, matcher *Matcher, c cache.Cache, cacheTTL time.Duration) *Enforcer {
	return &Enforcer{store: store, matcher: matcher, cache: c, cacheTTL: cacheTTL}
}

// Check reports whether the account may perform the action on the resource
// within the tenant. The decision depends only on the set of applicable
// rules, not their storage order: evaluation is an existential test over
// the effective subject set.
func (e *Enforcer) Check(ctx context.Context, req *CheckRequest) (*CheckResponse, error) {
	if err := e.validateRequest(req); err != nil {
		return nil, fmt.Errorf("invalid check request: %w", err)
	}

	snap, err := e.store.Snapshot()
	if err != nil {
		// Fail closed: no snapshot means deny, with the cause surfaced so
		// callers can distinguish "denied" from "engine unavailable".
		return &CheckResponse{Allowed: false}, err
	}

	domain := DomainFor(req.TenantID)

	var cacheKey string
	if e.cache != nil {
		cacheKey = e.cacheKey(req, domain, snap.Revision())
		if cached, found := e.cache.Get(ctx, cacheKey); found {
			if allowed, ok := cached.(bool); ok {
				return &CheckResponse{Allowed: allowed}, nil
			}
		}
	}

	allowed := e.evaluate(snap, req.AccountID, domain, req.Resource, req.Action)

	if e.cache != nil {
		_ = e.cache.Set(ctx, cacheKey, allowed, e.cacheTTL)
	}

	return &CheckResponse{Allowed: allowed}, nil
}

// evaluate expands the effective subject set and tests every visible grant.
func (e *Enforcer) evaluate(snap *Snapshot, accountID string, domain string, resource string, action string) bool {
	for _, subject := range e.expandSubjects(snap, accountID, domain) {
		for _, grant := range snap.GrantsFor(subject) {
			if !DomainVisible(grant.Domain, domain) {
				continue
			}
			if !e.matcher.Match(resource, grant.Object) {
				continue
			}
			if !e.matcher.Match(action, grant.Action) {
				continue
			}
			return true
		}
	}
	return false
}

// expandSubjects computes the effective subject set: the account itself,
// its directly bound roles, and the roles of every group it belongs to,
// all restricted to bindings visible in the request domain. Role-to-role
// inheritance does not exist; the expansion is exactly two levels deep.
func (e *Enforcer) expandSubjects(snap *Snapshot, accountID string, domain string) []string {
	seen := map[string]struct{}{accountID: {}}
	subjects := []string{accountID}

	add := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			subjects = append(subjects, id)
		}
	}

	for _, role := range snap.RolesFor(accountID, domain) {
		add(role)
	}
	for _, group := range snap.GroupsFor(accountID, domain) {
		for _, role := range snap.RolesFor(group, domain) {
			add(role)
		}
	}

	return subjects
}

// cacheKey hashes the request parameters and snapshot revision. Each field
// is written length-prefixed, so caller-supplied values containing separator
// characters cannot collide with a different field split.
func (e *Enforcer) cacheKey(req *CheckRequest, domain string, revision uint64) string {
	h := sha256.New()
	var buf [8]byte
	for _, field := range []string{req.AccountID, domain, req.Resource, req.Action} {
		binary.BigEndian.PutUint64(buf[:], uint64(len(field)))
		h.Write(buf[:])
		h.Write([]byte(field))
	}
	binary.BigEndian.PutUint64(buf[:], revision)
	h.Write(buf[:])
	return hex.EncodeToString(h.Sum(nil))
}

// validateRequest validates the check request. TenantID may be empty: that
// is a global-domain check, not an error.
func (e *Enforcer) validateRequest(req *CheckRequest) error {
	if req.AccountID == "" {
		return fmt.Errorf("account ID is required")
	}
	if req.Resource == "" {
		return fmt.Errorf("resource is required")
	}
	if req.Action == "" {
		return fmt.Errorf("action is required")
	}
	return nil
}
