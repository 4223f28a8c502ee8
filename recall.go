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


// Package recall assembles the retrieval engine, storage backend, ingestion
// pipeline and optional answer generator into a single System.
package recall

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/gen"
	"github.com/poiesic/recall/gen/openai"
	"github.com/poiesic/recall/ingestion"
	"github.com/poiesic/recall/retrieval"
	"github.com/poiesic/recall/scoring"
	"github.com/poiesic/recall/storage"
	"github.com/poiesic/recall/storage/badger"
)

// ErrNoGenerator is returned by Ask when the system was opened without a
// generation backend.
var ErrNoGenerator = errors.New("no generator configured")

// System is the top-level handle: a persistent knowledge base with
// deterministic retrieval, event-logged ingestion and optional answer
// generation.
type System struct {
	backend    *badger.Backend
	statements storage.StatementRepository
	events     storage.EventLog
	engine     *retrieval.Engine
	pipeline   *ingestion.Pipeline
	generator  gen.Generator
	logger     *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	inMemory        bool
	retrievalConfig retrieval.Config
	cacheCapacity   int
	hasCacheCap     bool
	generator       gen.Generator
	genConfig       *gen.Config
}

// WithInMemory opens the backing store in memory instead of on disk.
// Intended for tests and ephemeral use; nothing survives Close.
func WithInMemory() SystemOption {
	return func(o *systemOptions) {
		o.inMemory = true
	}
}

// WithRetrievalConfig overrides the default retrieval pipeline parameters.
func WithRetrievalConfig(cfg retrieval.Config) SystemOption {
	return func(o *systemOptions) {
		o.retrievalConfig = cfg
	}
}

// WithCacheCapacity sets the retrieval result cache capacity.
// Zero disables caching.
func WithCacheCapacity(capacity int) SystemOption {
	return func(o *systemOptions) {
		o.cacheCapacity = capacity
		o.hasCacheCap = true
	}
}

// WithGenerator injects an answer generator, enabling Ask.
func WithGenerator(g gen.Generator) SystemOption {
	return func(o *systemOptions) {
		o.generator = g
	}
}

// WithGeneratorConfig builds an OpenAI-compatible generator from the config,
// enabling Ask.
func WithGeneratorConfig(cfg *gen.Config) SystemOption {
	return func(o *systemOptions) {
		o.genConfig = cfg
	}
}

// Open opens (or creates) a system at the given path.
func Open(filePath string, opts ...SystemOption) (*System, error) {
	options := &systemOptions{
		retrievalConfig: retrieval.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	statements, err := badger.NewStatementRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	events, err := badger.NewEventLog(backend)
	if err != nil {
		statements.Close()
		backend.Close()
		return nil, err
	}

	scorer, err := scoring.NewIDFScorer()
	if err != nil {
		events.Close()
		statements.Close()
		backend.Close()
		return nil, err
	}

	engineOpts := []retrieval.EngineOption{
		retrieval.WithConfig(options.retrievalConfig),
	}
	if options.hasCacheCap {
		engineOpts = append(engineOpts, retrieval.WithCacheCapacity(options.cacheCapacity))
	}
	engine, err := retrieval.NewEngine(statements, scorer, engineOpts...)
	if err != nil {
		events.Close()
		statements.Close()
		backend.Close()
		return nil, err
	}

	pipeline, err := ingestion.NewPipeline(statements, events)
	if err != nil {
		events.Close()
		statements.Close()
		backend.Close()
		return nil, err
	}

	generator := options.generator
	if generator == nil && options.genConfig != nil {
		generator, err = openai.NewGenerator(options.genConfig)
		if err != nil {
			pipeline.Release()
			events.Close()
			statements.Close()
			backend.Close()
			return nil, err
		}
	}

	return &System{
		backend:    backend,
		statements: statements,
		events:     events,
		engine:     engine,
		pipeline:   pipeline,
		generator:  generator,
		logger:     slog.Default(),
	}, nil
}

// Close releases all resources. The system should not be used afterwards.
func (s *System) Close() error {
	s.pipeline.Release()

	if s.generator != nil {
		if err := s.generator.Close(); err != nil {
			s.logger.Error("error closing generator", "err", err)
		}
	}

	if err := s.events.Close(); err != nil {
		s.logger.Error("error closing event log", "err", err)
		return err
	}
	if err := s.statements.Close(); err != nil {
		s.logger.Error("error closing statement repository", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Retrieve returns up to k statements relevant to the query, deterministic
// for fixed inputs and knowledge-base state.
func (s *System) Retrieve(query string, k int, seed int64) []core.Statement {
	return s.engine.Retrieve(query, k, seed)
}

// RetrieveMulti answers multiple queries with a single merged result of up
// to k statements.
func (s *System) RetrieveMulti(queries []string, k int, seed int64) []core.Statement {
	return retrieval.RetrieveMulti(s.engine, queries, k, seed)
}

// Learn upserts statements into the knowledge base, recording learned-upsert
// events.
func (s *System) Learn(ctx context.Context, statements ...core.Statement) error {
	return s.pipeline.Learn(ctx, statements...)
}

// Ask retrieves supporting statements for the query and generates an answer,
// recording both conversation turns in the event log.
// Returns ErrNoGenerator when no generation backend is configured.
func (s *System) Ask(ctx context.Context, query string, k int, seed int64) (string, error) {
	if s.generator == nil {
		return "", ErrNoGenerator
	}

	if err := s.pipeline.RecordTurn(ctx, core.EventUserTurn, query); err != nil {
		return "", err
	}

	supporting := s.engine.Retrieve(query, k, seed)
	answer, err := s.generator.Generate(ctx, query, supporting)
	if err != nil {
		return "", err
	}

	if err := s.pipeline.RecordTurn(ctx, core.EventAssistantTurn, answer); err != nil {
		return "", err
	}
	return answer, nil
}

// StatementRepository exposes the underlying statement store.
func (s *System) StatementRepository() storage.StatementRepository {
	return s.statements
}

// EventLog exposes the underlying event log.
func (s *System) EventLog() storage.EventLog {
	return s.events
}
