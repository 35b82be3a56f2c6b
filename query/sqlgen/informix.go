package sqlgen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ifxgo/adapter/query/cache"
)

// NullRewriteMode selects how "= NULL" predicates are found.
type NullRewriteMode int

const (
	// NullRewriteTextual rewrites every match in the statement text,
	// including matches inside string literals.
	NullRewriteTextual NullRewriteMode = iota

	// NullRewriteLiteralAware leaves string literals, delimited identifiers
	// and comments untouched.
	NullRewriteLiteralAware
)

// Option configures an InformixRewriter
type Option func(*InformixRewriter)

// WithNullRewriteMode selects the null-predicate rewrite mode
func WithNullRewriteMode(mode NullRewriteMode) Option {
	return func(r *InformixRewriter) {
		r.nullMode = mode
	}
}

// WithCache memoizes RewriteSelect results in an LRU of the given size.
// Rewrites depend only on the statement and the pagination, so entries
// never go stale for the rewriter's lifetime.
func WithCache(size int) Option {
	return func(r *InformixRewriter) {
		r.cache = cache.NewLRU[rewriteKey, string](size)
	}
}

type rewriteKey struct {
	sql                 string
	limit, offset       int
	hasLimit, hasOffset bool
}

func newRewriteKey(sql string, p Pagination) rewriteKey {
	k := rewriteKey{sql: sql}
	if p.Limit != nil {
		k.limit, k.hasLimit = *p.Limit, true
	}
	if p.Offset != nil {
		k.offset, k.hasOffset = *p.Offset, true
	}
	return k
}

var (
	leadingSelect = regexp.MustCompile(`(?i)^(\s*)select\b\s*`)

	// The optional operator prefix keeps !=, <= and >= comparisons intact.
	nullPredicate = regexp.MustCompile(`(?i)\s*([!<>]?)=\s*null\b`)
)

// InformixRewriter rewrites statements for Informix Dynamic Server.
type InformixRewriter struct {
	caps     ServerCapabilities
	nullMode NullRewriteMode
	cache    *cache.LRU[rewriteKey, string]
}

// NewInformixRewriter creates a rewriter for a server with the given capabilities
func NewInformixRewriter(caps ServerCapabilities, opts ...Option) *InformixRewriter {
	r := &InformixRewriter{caps: caps}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Capabilities returns the negotiated server capabilities
func (r *InformixRewriter) Capabilities() ServerCapabilities {
	return r.caps
}

// AddLimitOffset splices "SKIP m FIRST n" right after the leading SELECT.
//
// Informix has no LIMIT/OFFSET. FIRST is always available; SKIP only from
// version 10 on, and older servers silently lose the offset. An offset without
// a limit still emits "SKIP m" alone, so rows are skipped even when the page
// is unbounded. Clauses are joined by single spaces, giving
// "SELECT FIRST 5 * FROM t" for a bare limit. Statements that do not start
// with SELECT are returned unchanged.
func (r *InformixRewriter) AddLimitOffset(sql string, p Pagination) string {
	var clauses []string
	if p.Offset != nil && r.caps.SupportsSkip() {
		clauses = append(clauses, fmt.Sprintf("SKIP %d", *p.Offset))
	}
	if p.Limit != nil {
		clauses = append(clauses, fmt.Sprintf("FIRST %d", *p.Limit))
	}
	if len(clauses) == 0 {
		return sql
	}

	loc := leadingSelect.FindStringSubmatchIndex(sql)
	if loc == nil {
		return sql
	}
	indent := sql[loc[2]:loc[3]]
	rest := sql[loc[1]:]

	return indent + "SELECT " + strings.Join(clauses, " ") + " " + rest
}

// RewriteNullPredicates turns "= NULL" into "IS NULL". The result is stable:
// rewriting it again changes nothing.
func (r *InformixRewriter) RewriteNullPredicates(sql string) string {
	if r.nullMode == NullRewriteLiteralAware {
		return rewriteOutsideLiterals(sql, rewriteNullText)
	}
	return rewriteNullText(sql)
}

// RewriteSelect applies the pagination splice and then the null rewrite.
func (r *InformixRewriter) RewriteSelect(sql string, p Pagination) string {
	if r.cache == nil {
		return r.rewriteSelect(sql, p)
	}
	return r.cache.GetOrCompute(newRewriteKey(sql, p), func() string {
		return r.rewriteSelect(sql, p)
	})
}

// CacheStats returns the rewrite cache statistics. ok is false when the
// rewriter was built without WithCache.
func (r *InformixRewriter) CacheStats() (stats cache.Stats, ok bool) {
	if r.cache == nil {
		return cache.Stats{}, false
	}
	return r.cache.Stats(), true
}

func (r *InformixRewriter) rewriteSelect(sql string, p Pagination) string {
	return r.RewriteNullPredicates(r.AddLimitOffset(sql, p))
}

func rewriteNullText(sql string) string {
	return nullPredicate.ReplaceAllStringFunc(sql, func(m string) string {
		sub := nullPredicate.FindStringSubmatch(m)
		if sub[1] != "" {
			return m
		}
		return " IS NULL"
	})
}

var _ Rewriter = (*InformixRewriter)(nil)
