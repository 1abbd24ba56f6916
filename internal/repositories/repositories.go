package repositories

import "errors"

// ErrNotFound is returned (wrapped with the offending identifier) when a
// record does not exist, so callers can classify lookups with errors.Is
// instead of matching message text.
var ErrNotFound = errors.New("record not found")
