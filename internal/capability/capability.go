// Package capability implements the leaf executors of the hierarchy.
// Each executor is a stateless unit that maps message content (plus an
// optional project id and dependency context) to an ordered slice of
// human-readable output lines.
//
// Executors never fail: when nothing in the message matches, they emit a
// least-informative-but-valid placeholder line instead of an empty slice.
// The single exception is issue extraction, which may legitimately report
// that no critical issues were found.
package capability

import "nion/internal/types"

// Request carries the borrowed inputs an executor reads. Executors never
// mutate it and return owned output slices.
type Request struct {
	Content string
	Project string
	Context types.Context
}

// Executor is a leaf capability.
type Executor interface {
	// Name is the registry name of this capability.
	Name() string
	// Execute produces the ordered output lines for one dispatch.
	Execute(req Request) []string
}
