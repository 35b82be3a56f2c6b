// Package client provides the Informix adapter used by the ORM.
package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ifxgo/adapter/internal/debug"
	migrateexec "github.com/ifxgo/adapter/migrate/executor"
	"github.com/ifxgo/adapter/migrate/introspect"
	migratesql "github.com/ifxgo/adapter/migrate/sqlgen"
	"github.com/ifxgo/adapter/query/executor"
	"github.com/ifxgo/adapter/query/sqlgen"
	"github.com/ifxgo/adapter/runtime"
	"github.com/ifxgo/adapter/runtime/driver"
)

// DefaultDriverName is the database/sql driver used when Config leaves it empty.
const DefaultDriverName = "informix"

// Config holds the connection settings
type Config struct {
	// DriverName is the registered database/sql driver.
	DriverName string
	// DSN is passed to the driver as is. When empty it is built from
	// Database, Username and Password.
	DSN      string
	Database string
	Username string
	Password string
	// ConnectTimeout bounds connection and version negotiation. Zero means no limit.
	ConnectTimeout time.Duration
	// LiteralAwareRewrite keeps "= NULL" inside literals and comments untouched.
	LiteralAwareRewrite bool
	// RewriteCacheSize memoizes that many rewritten statements. Zero disables it.
	RewriteCacheSize int
}

// ConnectionString returns DSN, or an ODBC style string built from the other fields.
func (c Config) ConnectionString() string {
	if c.DSN != "" {
		return c.DSN
	}
	var parts []string
	if c.Database != "" {
		parts = append(parts, "DATABASE="+c.Database)
	}
	if c.Username != "" {
		parts = append(parts, "UID="+c.Username)
	}
	if c.Password != "" {
		parts = append(parts, "PWD="+c.Password)
	}
	return strings.Join(parts, ";")
}

func (c Config) driverName() string {
	if c.DriverName == "" {
		return DefaultDriverName
	}
	return c.DriverName
}

// Option configures an Adapter
type Option func(*options)

type options struct {
	caps         *sqlgen.ServerCapabilities
	literalAware bool
	cacheSize    int
	middlewares  []executor.Middleware
}

// WithServerCapabilities skips version negotiation and uses caps instead.
func WithServerCapabilities(caps sqlgen.ServerCapabilities) Option {
	return func(o *options) {
		o.caps = &caps
	}
}

// WithLiteralAwareRewrite selects the literal-aware null rewrite.
func WithLiteralAwareRewrite() Option {
	return func(o *options) {
		o.literalAware = true
	}
}

// WithRewriteCache memoizes up to size rewritten statements per connection.
func WithRewriteCache(size int) Option {
	return func(o *options) {
		o.cacheSize = size
	}
}

// WithMiddleware adds a statement middleware after the logging middleware.
func WithMiddleware(mw executor.Middleware) Option {
	return func(o *options) {
		o.middlewares = append(o.middlewares, mw)
	}
}

// Connect opens a connection and negotiates the server version.
// Any failure is returned as runtime.ErrConnection.
func Connect(ctx context.Context, cfg Config, opts ...Option) (*Adapter, error) {
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	conn, err := driver.Open(ctx, cfg.driverName(), cfg.ConnectionString())
	if err != nil {
		return nil, runtime.ConnectionError(cfg.Database, err)
	}

	if cfg.LiteralAwareRewrite {
		opts = append(opts, WithLiteralAwareRewrite())
	}
	if cfg.RewriteCacheSize > 0 {
		opts = append(opts, WithRewriteCache(cfg.RewriteCacheSize))
	}
	a, err := NewAdapter(ctx, conn, opts...)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return a, nil
}

// NewAdapter wraps an open connection. The server version is read once here
// and fixed for the adapter's lifetime.
func NewAdapter(ctx context.Context, conn driver.Conn, opts ...Option) (*Adapter, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	var caps sqlgen.ServerCapabilities
	if o.caps != nil {
		caps = *o.caps
	} else {
		raw, err := conn.ServerVersion(ctx)
		if err != nil {
			return nil, runtime.ConnectionError("", fmt.Errorf("negotiate server version: %w", err))
		}
		caps, err = sqlgen.ParseServerVersion(raw)
		if err != nil {
			return nil, runtime.ConnectionError("", err)
		}
	}

	mode := sqlgen.NullRewriteTextual
	if o.literalAware {
		mode = sqlgen.NullRewriteLiteralAware
	}

	rwOpts := []sqlgen.Option{sqlgen.WithNullRewriteMode(mode)}
	if o.cacheSize > 0 {
		rwOpts = append(rwOpts, sqlgen.WithCache(o.cacheSize))
	}

	id := uuid.New().String()
	exec := executor.NewExecutor(conn, sqlgen.NewInformixRewriter(caps, rwOpts...))
	exec.Use(executor.LoggingMiddleware(debug.With("conn", id)))
	for _, mw := range o.middlewares {
		exec.Use(mw)
	}

	debug.Debug("Connected", "conn", id, "server_version", caps.String(), "skip", caps.SupportsSkip())

	return &Adapter{
		Executor:             exec,
		InformixIntrospector: introspect.NewInformixIntrospector(conn),
		id:                   id,
		conn:                 conn,
		caps:                 caps,
		ddl:                  migratesql.NewInformixMigrationGenerator(),
		migrator:             migrateexec.NewMigrationExecutor(exec),
	}, nil
}
