package repository

import "errors"

// ErrNotFound marks a lookup for an entity that does not exist. Repositories
// wrap it with the entity name; callers classify with errors.Is.
var ErrNotFound = errors.New("not found")
