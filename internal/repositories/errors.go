package repositories

import "errors"

// ErrDuplicate is returned by Create when a uniqueness constraint would be
// violated: permission name and account email globally, role/group name and
// account username per tenant.
var ErrDuplicate = errors.New("entity already exists")

// ErrNotFound is returned by Get and Delete when the ID does not exist.
// Relationship removal of a non-existent edge is not an error.
var ErrNotFound = errors.New("entity not found")
