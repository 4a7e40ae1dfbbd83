package model

import (
	"testing"

	"codeconnect/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItemRef(t *testing.T) {
	t.Run("valid kinds", func(t *testing.T) {
		ref, err := NewItemRef(ItemKindProblem, "p1")
		require.NoError(t, err)
		assert.Equal(t, "problem:p1", ref.String())

		ref, err = NewItemRef(ItemKindChallenge, "c1")
		require.NoError(t, err)
		assert.Equal(t, "challenge:c1", ref.String())
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := NewItemRef(ItemKindProblem, "")
		assert.ErrorIs(t, err, common.ErrValidation)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := NewItemRef(ItemKind("quiz"), "x")
		assert.ErrorIs(t, err, common.ErrValidation)
	})
}

func TestNormalizeDifficulty(t *testing.T) {
	assert.Equal(t, "easy", NormalizeDifficulty("Easy"))
	assert.Equal(t, "medium", NormalizeDifficulty("MEDIUM"))
	assert.Equal(t, "hard", NormalizeDifficulty("  Hard "))
	assert.Equal(t, "", NormalizeDifficulty(""))
}

func TestSubmissionStatusValid(t *testing.T) {
	assert.True(t, StatusPassed.Valid())
	assert.True(t, StatusFailed.Valid())
	assert.True(t, StatusCompiling.Valid())
	assert.False(t, SubmissionStatus("pending").Valid())
	assert.False(t, SubmissionStatus("").Valid())
}
