package core

import "errors"

// Core errors that can occur across the system
var (
	// Storage errors
	ErrRecordNotFound  = errors.New("record not found")
	ErrDuplicateRecord = errors.New("duplicate record")
	ErrMigrationFailed = errors.New("migration failed")

	// Validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingRequired = errors.New("missing required field")
	ErrUnknownColumn   = errors.New("unknown column in update")

	// Session errors
	ErrSessionClosed = errors.New("session registry is closed")

	// Agent errors
	ErrLLMUnavailable = errors.New("LLM service unavailable")
	ErrUnknownTool    = errors.New("unknown tool")
)
