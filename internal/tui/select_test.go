package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/orpheus/internal/enrich"
	orpheuserrors "github.com/lepinkainen/orpheus/internal/errors"
)

func testCandidates() []enrich.Candidate {
	return []enrich.Candidate{
		{ID: "3TVXtAsR1Inumwj472S9r4", Name: "Drake", Detail: "popularity 95, 80000000 followers"},
		{ID: "4PP9cfdQahiss9MXj6sfvN", Name: "Drake Bell", Detail: "popularity 55, 1000000 followers"},
	}
}

// stubProgram drives the model with a scripted key sequence instead of a
// real terminal.
func stubProgram(t *testing.T, keys ...tea.KeyMsg) {
	t.Helper()
	original := runProgram
	t.Cleanup(func() { runProgram = original })

	runProgram = func(m tea.Model) (tea.Model, error) {
		current := m
		for _, key := range keys {
			next, _ := current.Update(key)
			current = next
		}
		return current, nil
	}
}

func TestSelectCandidateReturnsChosenIndex(t *testing.T) {
	stubProgram(t,
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyEnter},
	)

	idx, err := SelectCandidate("Drake", testCandidates())
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestSelectCandidateSkip(t *testing.T) {
	stubProgram(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})

	idx, err := SelectCandidate("Drake", testCandidates())
	require.NoError(t, err)
	assert.Equal(t, -1, idx)
}

func TestSelectCandidateEscapeSkips(t *testing.T) {
	stubProgram(t, tea.KeyMsg{Type: tea.KeyEsc})

	idx, err := SelectCandidate("Drake", testCandidates())
	require.NoError(t, err)
	assert.Equal(t, -1, idx)
}

func TestSelectCandidateStopAbortsRun(t *testing.T) {
	stubProgram(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	idx, err := SelectCandidate("Drake", testCandidates())
	require.Error(t, err)
	assert.Equal(t, -1, idx)
	assert.True(t, orpheuserrors.IsStopProcessingError(err))
}

func TestSelectEmptyCandidatesSkips(t *testing.T) {
	result, err := Select("Drake", nil)
	require.NoError(t, err)
	assert.Equal(t, ActionSkipped, result.Action)
	assert.Equal(t, -1, result.Index)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 20))
	assert.Equal(t, "long de...", truncate("long detail text here", 10))
	assert.Equal(t, "collapsed whitespace", truncate("collapsed\n\twhitespace", 40))
}
