// Package pipelineerr defines the error-kind taxonomy from spec §7 as
// small wrapped struct types, the way internal/repository/postgres
// distinguishes sql.ErrNoRows from a hard connection failure: callers use
// errors.As to branch on kind without string-matching messages.
package pipelineerr

import "fmt"

// ConfigError means the source config is missing or malformed. Surfaced
// to the user; never retried automatically.
type ConfigError struct {
	SourceID string
	Err      error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for source %s: %v", e.SourceID, e.Err)
}
func (e *ConfigError) Unwrap() error { return e.Err }

// AcquisitionError means the adapter's connection/download step failed.
// The email adapter's caller may reschedule via internal/retry.
type AcquisitionError struct {
	SourceID string
	Channel  string
	Err      error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("acquisition error (%s) for source %s: %v", e.Channel, e.SourceID, e.Err)
}
func (e *AcquisitionError) Unwrap() error { return e.Err }

// ParseError means the file was unreadable or contained zero rows.
type ParseError struct {
	SourceID string
	FileName string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error for %s (source %s): %v", e.FileName, e.SourceID, e.Err)
}
func (e *ParseError) Unwrap() error { return e.Err }

// ValidationPreImportError means a structural or row-count guard tripped
// before any transform ran. No write happens; an alert is dispatched.
type ValidationPreImportError struct {
	SourceID string
	Detail   string
}

func (e *ValidationPreImportError) Error() string {
	return fmt.Sprintf("pre-import validation failed for source %s: %s", e.SourceID, e.Detail)
}

// SafetyBlockError wraps a tripped step-17 guard. No write happens.
type SafetyBlockError struct {
	SourceID      string
	Message       string
	ExistingCount int
	NewCount      int
	DropPercent   float64
}

func (e *SafetyBlockError) Error() string {
	return fmt.Sprintf("safety block for source %s: %s (existing=%d new=%d drop=%.1f%%)",
		e.SourceID, e.Message, e.ExistingCount, e.NewCount, e.DropPercent)
}

// WriteError means step 18 failed. The postgres VariantRepository runs
// both full_sync and upsert writes inside one transaction, so nothing from
// the failed write is committed; the orchestrator leaves PartialCount at 0.
type WriteError struct {
	SourceID     string
	PartialCount int
	Err          error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write error for source %s (partial=%d): %v", e.SourceID, e.PartialCount, e.Err)
}
func (e *WriteError) Unwrap() error { return e.Err }

// TransformWarning is non-fatal: the step that raises it logs it and the
// run continues. It is not propagated as a hard failure and is not
// recorded in the run's stats.
type TransformWarning struct {
	Step   string
	Detail string
}

func (e *TransformWarning) Error() string {
	return fmt.Sprintf("transform warning at %s: %s", e.Step, e.Detail)
}
