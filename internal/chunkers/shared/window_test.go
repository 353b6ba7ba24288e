package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackWindows_SingleWindowWhenUnderBudget(t *testing.T) {
	pieces := []int{3, 3, 3}
	windows := PackWindows(pieces, func(n int) int { return n }, 20, 0)
	require.Len(t, windows, 1)
	assert.Equal(t, pieces, windows[0].Pieces)
}

func TestPackWindows_SplitsOnBudget(t *testing.T) {
	pieces := []int{5, 5, 5, 5}
	windows := PackWindows(pieces, func(n int) int { return n }, 10, 0)
	require.Len(t, windows, 2)
	assert.Equal(t, []int{5, 5}, windows[0].Pieces)
	assert.Equal(t, []int{5, 5}, windows[1].Pieces)
}

func TestPackWindows_CarriesOverlap(t *testing.T) {
	pieces := []int{4, 4, 4, 4}
	windows := PackWindows(pieces, func(n int) int { return n }, 8, 4)
	require.GreaterOrEqual(t, len(windows), 2)
	assert.Greater(t, windows[1].OverlapCount, 0)
}

func TestPackWindows_Empty(t *testing.T) {
	windows := PackWindows([]int{}, func(n int) int { return n }, 10, 0)
	assert.Nil(t, windows)
}

func TestPackWindows_OversizePieceEmittedAlone(t *testing.T) {
	pieces := []int{3, 50, 3}
	windows := PackWindows(pieces, func(n int) int { return n }, 10, 0)
	require.Len(t, windows, 3)
	assert.Equal(t, []int{50}, windows[1].Pieces)
}
