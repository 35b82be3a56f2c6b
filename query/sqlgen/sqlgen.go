// Package sqlgen rewrites portable SQL into the Informix dialect.
package sqlgen

import (
	"fmt"
	"strings"
)

// Query represents a SQL query with arguments
type Query struct {
	SQL  string
	Args []interface{}
}

// Pagination is the LIMIT/OFFSET request of a single statement.
// A nil field means the clause was not requested.
type Pagination struct {
	Limit  *int
	Offset *int
}

// Limit builds a Pagination with only a limit
func Limit(n int) Pagination {
	return Pagination{Limit: &n}
}

// LimitOffset builds a Pagination with a limit and an offset
func LimitOffset(limit, offset int) Pagination {
	return Pagination{Limit: &limit, Offset: &offset}
}

// IsZero reports whether neither clause was requested
func (p Pagination) IsZero() bool {
	return p.Limit == nil && p.Offset == nil
}

// Rewriter rewrites statements for a specific provider
type Rewriter interface {
	// AddLimitOffset splices the pagination clauses into a SELECT.
	AddLimitOffset(sql string, p Pagination) string

	// RewriteNullPredicates turns "= NULL" comparisons into "IS NULL".
	RewriteNullPredicates(sql string) string

	// RewriteSelect applies both rewrites, pagination first.
	RewriteSelect(sql string, p Pagination) string

	// Capabilities returns the server capabilities the rewriter was built for.
	Capabilities() ServerCapabilities
}

// NewRewriter creates a rewriter for the given provider
func NewRewriter(provider string, caps ServerCapabilities, opts ...Option) (Rewriter, error) {
	switch strings.ToLower(provider) {
	case "informix", "ifx", "ids":
		return NewInformixRewriter(caps, opts...), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
