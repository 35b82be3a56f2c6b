// Package executor applies synthesized DDL to the database.
package executor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/ifxgo/adapter/internal/debug"
)

// Runner executes one statement. *query/executor.Executor satisfies it.
type Runner interface {
	Execute(ctx context.Context, sql string, args ...interface{}) error
}

// Step is a named group of statements, e.g. the output of one DDL call.
type Step struct {
	Name       string
	Statements []string
}

// Result summarizes an applied migration
type Result struct {
	Name          string
	Applied       int
	Checksum      string
	ExecutionTime time.Duration
}

// StepError reports the statement that stopped a migration
type StepError struct {
	Step      string
	Index     int
	Statement string
	Err       error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s: statement %d (%s): %v", e.Step, e.Index+1, e.Statement, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// MigrationExecutor applies statements in order. It opens no transaction of
// its own; statements run in whatever transaction scope the caller holds.
type MigrationExecutor struct {
	runner Runner
}

// NewMigrationExecutor creates a new migration executor
func NewMigrationExecutor(runner Runner) *MigrationExecutor {
	return &MigrationExecutor{runner: runner}
}

// ExecuteMigrationStatements runs statements and stops at the first failure.
// Blank statements are skipped.
func (e *MigrationExecutor) ExecuteMigrationStatements(ctx context.Context, statements []string, name string) (*Result, error) {
	return e.ExecuteSteps(ctx, name, Step{Name: name, Statements: statements})
}

// ExecuteSteps runs every step in order.
func (e *MigrationExecutor) ExecuteSteps(ctx context.Context, name string, steps ...Step) (*Result, error) {
	start := time.Now()
	result := &Result{Name: name}

	var all []string
	for _, step := range steps {
		for i, stmt := range step.Statements {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if err := e.runner.Execute(ctx, stmt); err != nil {
				return result, &StepError{Step: step.Name, Index: i, Statement: stmt, Err: err}
			}
			result.Applied++
			all = append(all, stmt)
		}
	}

	result.Checksum = Checksum(all)
	result.ExecutionTime = time.Since(start)
	debug.Debug("Applied migration", "name", name, "statements", result.Applied, "checksum", result.Checksum)
	return result, nil
}

// Checksum fingerprints a list of statements
func Checksum(statements []string) string {
	sum := sha256.Sum256([]byte(strings.Join(statements, "\n")))
	return hex.EncodeToString(sum[:])
}
