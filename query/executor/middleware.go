package executor

import (
	"context"
	"log/slog"
	"time"
)

// QueryEvent represents one statement sent to the server
type QueryEvent struct {
	Name     string
	Query    string
	Args     []interface{}
	Duration time.Duration
	Error    error
	Start    time.Time
	End      time.Time
}

// Middleware is a function that intercepts statements
type Middleware func(ctx context.Context, event *QueryEvent, next func() error) error

// Use adds a middleware to the chain. Middlewares run in the order they were added.
func (e *Executor) Use(middleware Middleware) {
	e.middlewares = append(e.middlewares, middleware)
}

// run executes exec through the middleware chain
func (e *Executor) run(ctx context.Context, name, query string, args []interface{}, exec func() error) error {
	event := &QueryEvent{
		Name:  name,
		Query: query,
		Args:  args,
		Start: time.Now(),
	}

	var next func() error
	index := 0

	next = func() error {
		if index >= len(e.middlewares) {
			err := exec()
			event.End = time.Now()
			event.Duration = event.End.Sub(event.Start)
			event.Error = err
			return err
		}

		middleware := e.middlewares[index]
		index++
		return middleware(ctx, event, next)
	}

	return next()
}

// LoggingMiddleware logs every statement at debug level and failures at error level
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if err != nil {
			logger.ErrorContext(ctx, "statement failed",
				"name", event.Name,
				"sql", event.Query,
				"duration", event.Duration,
				"error", err,
			)
			return err
		}
		logger.DebugContext(ctx, "statement",
			"name", event.Name,
			"sql", event.Query,
			"duration", event.Duration,
		)
		return nil
	}
}

// TimingMiddleware reports the duration of every statement
func TimingMiddleware(onTiming func(query string, duration time.Duration)) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if onTiming != nil {
			onTiming(event.Query, event.Duration)
		}
		return err
	}
}

// ErrorMiddleware reports every failed statement
func ErrorMiddleware(onError func(query string, err error)) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if err != nil && onError != nil {
			onError(event.Query, err)
		}
		return err
	}
}
