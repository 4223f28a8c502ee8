// Package ingestion provides pipeline orchestration for feeding the
// knowledge base.
//
// The Pipeline type manages the ingestion workflow, including:
//   - Upserting learned statements into storage
//   - Recording conversation turns and learned upserts in the event log
//
// Event log writes are performed asynchronously on a worker pool.
// Errors during async processing are logged but do not fail the ingestion
// operation.
package ingestion
