package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := IDFromContent("rust ownership model")
		b := IDFromContent("rust ownership model")
		assert.Equal(t, a, b)
	})

	t.Run("distinct content produces distinct ids", func(t *testing.T) {
		a := IDFromContent("alpha")
		b := IDFromContent("beta")
		assert.NotEqual(t, a, b)
	})

	t.Run("empty content is valid", func(t *testing.T) {
		assert.NotPanics(t, func() { IDFromContent("") })
	})
}

func TestStatementKey(t *testing.T) {
	t.Run("id takes precedence", func(t *testing.T) {
		s := Statement{Id: "a", Text: "some text"}
		assert.Equal(t, "a", s.Key())
	})

	t.Run("falls back to trimmed text", func(t *testing.T) {
		s := Statement{Text: "  some text  "}
		assert.Equal(t, "some text", s.Key())
	})
}

func TestStatementNormalizedWeight(t *testing.T) {
	t.Run("positive weight passes through", func(t *testing.T) {
		s := Statement{Weight: 2.5}
		assert.Equal(t, 2.5, s.NormalizedWeight())
	})

	t.Run("negative weight clamps to zero", func(t *testing.T) {
		s := Statement{Weight: -1.0}
		assert.Equal(t, 0.0, s.NormalizedWeight())
	})

	t.Run("NaN weight defaults to one", func(t *testing.T) {
		s := Statement{Weight: math.NaN()}
		assert.Equal(t, 1.0, s.NormalizedWeight())
	})

	t.Run("infinite weight defaults to one", func(t *testing.T) {
		s := Statement{Weight: math.Inf(1)}
		assert.Equal(t, 1.0, s.NormalizedWeight())
	})
}
