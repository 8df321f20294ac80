// Package repository defines error values reused across multiple
// repositories.  These sentinels let handlers distinguish failure
// scenarios without string matching: ErrNotFound covers both a missing
// row and a row owned by someone else (ownership is enforced in the
// WHERE clause, so the two are indistinguishable by design), while the
// duplicate errors surface unique-key violations on registration.
package repository

import "errors"

// ErrNotFound is returned when a referenced entity is absent or not
// owned by the caller.  Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert violates an email unique key.
var ErrEmailExists = errors.New("email already exists")

// ErrUsernameExists is returned when an insert violates the username
// unique key.
var ErrUsernameExists = errors.New("username already exists")
