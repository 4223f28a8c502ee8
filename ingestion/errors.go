package ingestion

import "errors"

var (
	// ErrStatementRepositoryRequired is returned when a statement repository is not provided.
	ErrStatementRepositoryRequired = errors.New("statement repository required")

	// ErrEventLogRequired is returned when an event log is not provided.
	ErrEventLogRequired = errors.New("event log required")
)
