package port

import "errors"

// Sentinel errors used across ports.
var (
	ErrToolNotFound        = errors.New("tool not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrAlternativeNotFound = errors.New("alternative not found")

	// ErrRepositoryGone means the remote query succeeded but the repository
	// no longer exists (deleted, renamed, or made private).
	ErrRepositoryGone = errors.New("repository not found on remote host")
)
