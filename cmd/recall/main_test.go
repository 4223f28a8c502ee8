package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSetupLogger(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	newContext := func(level string) *cli.Context {
		set := flag.NewFlagSet("test", flag.ContinueOnError)
		set.String("log-level", "", "")
		require.NoError(t, set.Set("log-level", level))
		return cli.NewContext(&cli.App{}, set, nil)
	}

	t.Run("valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "INFO", "Debug"} {
			assert.NoError(t, setupLogger(newContext(level)), "level %q", level)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		err := setupLogger(newContext("verbose"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestSeedLineParsing(t *testing.T) {
	t.Run("full entry", func(t *testing.T) {
		var entry seedLine
		require.NoError(t, json.Unmarshal([]byte(`{"id":"paris","text":"the capital of France is Paris","weight":0.5}`), &entry))
		assert.Equal(t, "paris", entry.Id)
		require.NotNil(t, entry.Weight)
		assert.Equal(t, 0.5, *entry.Weight)
	})

	t.Run("weight omitted stays nil", func(t *testing.T) {
		var entry seedLine
		require.NoError(t, json.Unmarshal([]byte(`{"text":"a bare fact"}`), &entry))
		assert.Nil(t, entry.Weight)
		assert.Empty(t, entry.Id)
	})
}

func TestSeedCommandValidation(t *testing.T) {
	app := &cli.App{
		Name: "recall",
		Commands: []*cli.Command{
			{
				Name:   "seed",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "db", Required: true},
				},
			},
		},
	}

	t.Run("db is required", func(t *testing.T) {
		err := app.Run([]string{"recall", "seed", "somefile"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db")
	})

	t.Run("missing file argument", func(t *testing.T) {
		err := app.Run([]string{"recall", "seed", "--db", t.TempDir()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "FILE")
	})

	t.Run("nonexistent input file", func(t *testing.T) {
		err := app.Run([]string{"recall", "seed", "--db", t.TempDir(), "/does/not/exist.jsonl"})
		require.Error(t, err)
		assert.True(t, os.IsNotExist(err))
	})
}
