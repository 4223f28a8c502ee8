// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

// Pipeline orchestrates writes into the knowledge base. Statement upserts
// are synchronous so retrieval sees them immediately; event log appends run
// asynchronously on a worker pool.
type Pipeline struct {
	statements storage.StatementRepository
	events     storage.EventLog
	eventPool  *ants.Pool
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for async event log appends.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.eventPool != nil {
			p.eventPool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.eventPool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	statements storage.StatementRepository,
	events storage.EventLog,
	opts ...Option,
) (*Pipeline, error) {
	if statements == nil {
		return nil, ErrStatementRepositoryRequired
	}
	if events == nil {
		return nil, ErrEventLogRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		statements: statements,
		events:     events,
		eventPool:  pool,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Learn upserts statements into the knowledge base and records a learned
// upsert event for each. The upsert is synchronous; event log appends are
// asynchronous and their errors are logged, never surfaced.
func (p *Pipeline) Learn(ctx context.Context, statements ...core.Statement) error {
	if len(statements) == 0 {
		return nil
	}

	if err := p.statements.Upsert(ctx, statements...); err != nil {
		return err
	}

	now := time.Now().UTC()
	events := make([]core.Event, len(statements))
	for i, statement := range statements {
		events[i] = core.Event{
			Kind:        core.EventLearnedUpsert,
			Text:        statement.Text,
			StatementId: statement.Id,
			Weight:      statement.Weight,
			At:          now,
		}
	}

	p.submitAppend(events)
	return nil
}

// RecordTurn records a conversation turn in the event log asynchronously.
func (p *Pipeline) RecordTurn(ctx context.Context, kind core.EventKind, text string) error {
	if err := core.ValidateEventKind(kind); err != nil {
		return err
	}

	p.submitAppend([]core.Event{{
		Kind: kind,
		Text: text,
		At:   time.Now().UTC(),
	}})
	return nil
}

// submitAppend schedules an event log append on the worker pool. When the
// pool rejects the task (released or saturated beyond its queue), the append
// runs inline so no event is lost.
func (p *Pipeline) submitAppend(events []core.Event) {
	task := func() {
		if _, err := p.events.Append(context.Background(), events...); err != nil {
			p.logger.Error("error appending events", "err", err)
		}
	}
	if err := p.eventPool.Submit(task); err != nil {
		p.logger.Warn("event pool unavailable, appending inline", "err", err)
		task()
	}
}

// Release releases the worker pool. The pipeline should not be used after
// calling Release.
func (p *Pipeline) Release() {
	if p.eventPool != nil {
		p.eventPool.Release()
	}
}
