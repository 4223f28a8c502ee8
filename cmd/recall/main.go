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


package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/recall"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/gen"
	"github.com/poiesic/recall/retrieval"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "recall",
		Usage: "Deterministic knowledge retrieval over a local statement store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "seed",
				Usage:     "Load statements from a JSON-lines file into the store",
				ArgsUsage: "FILE",
				Action:    seedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Retrieve the top-k statements for one or more queries",
				ArgsUsage: "QUERY [QUERY...]",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "k",
						Aliases: []string{"n"},
						Usage:   "Number of statements to return",
						Value:   5,
					},
					&cli.Int64Flag{
						Name:  "seed",
						Usage: "Deterministic seed for retrieval",
						Value: 0,
					},
					&cli.IntFlag{
						Name:  "iterations",
						Usage: "Number of retrieval refinement iterations",
						Value: retrieval.DefaultConfig().Iterations,
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Answer a question using retrieved statements and an LLM",
				ArgsUsage: "QUESTION",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "Chat completion service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "model",
						Usage:    "Chat completion model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "k",
						Aliases: []string{"n"},
						Usage:   "Number of supporting statements to retrieve",
						Value:   5,
					},
					&cli.Int64Flag{
						Name:  "seed",
						Usage: "Deterministic seed for retrieval",
						Value: 0,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// seedLine is the JSON-lines input format for the seed command.
type seedLine struct {
	Id     string   `json:"id"`
	Text   string   `json:"text"`
	Weight *float64 `json:"weight"`
}

func seedCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one FILE argument")
	}

	file, err := os.Open(c.Args().First())
	if err != nil {
		return err
	}
	defer file.Close()

	system, err := recall.Open(c.String("db"))
	if err != nil {
		return err
	}
	defer system.Close()

	ctx := context.Background()
	count := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry seedLine
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return fmt.Errorf("line %d: %w", count+1, err)
		}
		weight := 1.0
		if entry.Weight != nil {
			weight = *entry.Weight
		}

		statement := core.Statement{Id: entry.Id, Text: entry.Text, Weight: weight}
		if err := system.Learn(ctx, statement); err != nil {
			return fmt.Errorf("line %d: %w", count+1, err)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	slog.Info("seeded statements", "count", count)
	return nil
}

func queryCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("expected at least one QUERY argument")
	}

	cfg := retrieval.DefaultConfig()
	cfg.Iterations = c.Int("iterations")

	system, err := recall.Open(c.String("db"), recall.WithRetrievalConfig(cfg))
	if err != nil {
		return err
	}
	defer system.Close()

	var results []core.Statement
	queries := c.Args().Slice()
	if len(queries) == 1 {
		results = system.Retrieve(queries[0], c.Int("k"), c.Int64("seed"))
	} else {
		results = system.RetrieveMulti(queries, c.Int("k"), c.Int64("seed"))
	}

	if len(results) == 0 {
		fmt.Println("no results")
		return nil
	}
	for i, statement := range results {
		if statement.Id != "" {
			fmt.Printf("%2d. [%s] %s\n", i+1, statement.Id, statement.Text)
		} else {
			fmt.Printf("%2d. %s\n", i+1, statement.Text)
		}
	}
	return nil
}

func askCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one QUESTION argument")
	}

	genCfg := gen.NewConfig(
		gen.WithHost(c.String("host")),
		gen.WithModel(c.String("model")),
	)

	system, err := recall.Open(c.String("db"), recall.WithGeneratorConfig(genCfg))
	if err != nil {
		return err
	}
	defer system.Close()

	answer, err := system.Ask(context.Background(), c.Args().First(), c.Int("k"), c.Int64("seed"))
	if err != nil {
		return err
	}

	fmt.Println(answer)
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
