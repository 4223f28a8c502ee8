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


package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/gen"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const systemPrompt = `You are a precise assistant. Answer the user's question using only the knowledge statements provided in the context block. If the context does not contain the answer, say you do not know. Be concise.`

// Generator implements gen.Generator using OpenAI-compatible chat APIs.
type Generator struct {
	client          llms.Model
	maxContextChars int
	logger          *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
func newGenerator(config *gen.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken("none"),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:          client,
		maxContextChars: config.MaxContextChars,
		logger:          slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new generator using the provided configuration.
//
// Returns gen.Generator interface to enforce abstraction.
func NewGenerator(config *gen.Config) (gen.Generator, error) {
	return newGenerator(config)
}

// Generate answers the query grounded in the retrieved statements.
func (g *Generator) Generate(ctx context.Context, query string, statements []core.Statement) (string, error) {
	contextBlock := g.buildContextBlock(statements)

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart("Context:\n" + contextBlock + "\n\nQuestion: " + query),
			},
		},
	}

	response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		g.logger.Error("failed to generate content", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		g.logger.Debug("no choices returned from model")
		return "", nil
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}

// buildContextBlock renders statements one per line, most relevant first,
// dropping statements once the character budget is spent.
func (g *Generator) buildContextBlock(statements []core.Statement) string {
	var b strings.Builder
	for _, statement := range statements {
		line := "- " + strings.TrimSpace(statement.Text)
		if b.Len()+len(line)+1 > g.maxContextChars {
			break
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	if b.Len() == 0 {
		return "(no relevant statements found)"
	}
	return b.String()
}

// Close releases resources. The underlying HTTP client needs no cleanup.
func (g *Generator) Close() error {
	return nil
}
