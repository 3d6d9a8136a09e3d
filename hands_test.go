package snapsocket

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandSelection(t *testing.T) {
	h := NewHand("RightHand Controller")
	_, ok := h.Selection()
	assert.False(t, ok)

	h.Select(3)
	h.Select(5)
	h.Select(3)
	sel, ok := h.Selection()
	require.True(t, ok)
	assert.Equal(t, uint64(3), sel)

	h.Deselect(3)
	sel, _ = h.Selection()
	assert.Equal(t, uint64(5), sel)

	h.Clear()
	assert.False(t, h.HasSelection())
}

func TestHandsIsHeld(t *testing.T) {
	left, right := NewHand("l"), NewHand("r")
	hands := &Hands{Left: left, Right: right}

	left.Select(1)
	right.Select(2)
	right.Select(3)

	assert.True(t, hands.IsHeld(1))
	assert.True(t, hands.IsHeld(2))
	// only the active selection counts
	assert.False(t, hands.IsHeld(3))
	assert.False(t, hands.IsHeld(4))
}

func TestResolveHands(t *testing.T) {
	left, right := NewHand("LeftHand Controller"), NewHand("RightHand Controller")
	set := HandSet{left.Name: left, right.Name: right}

	hands, err := ResolveHands(set, "LeftHand Controller", "RightHand Controller")
	require.NoError(t, err)
	assert.Same(t, left, hands.Left)
	assert.Same(t, right, hands.Right)

	_, err = ResolveHands(set, "LeftHand Controller", "Missing")
	assert.True(t, errors.Is(err, ErrHandNotFound))
	assert.Contains(t, err.Error(), `"Missing"`)

	_, err = ResolveHands(HandSet{}, "a", "b")
	assert.True(t, errors.Is(err, ErrHandNotFound))

	var unset *Hand
	_, err = ResolveHands(HandSet{left.Name: left, "Broken": unset}, "LeftHand Controller", "Broken")
	assert.True(t, errors.Is(err, ErrHandNotFound))
	assert.Contains(t, err.Error(), `"Broken"`)
}

type finderFunc func(name string) (Manipulator, bool)

func (f finderFunc) FindHand(name string) (Manipulator, bool) { return f(name) }

func TestResolveHandsRejectsNilFromFinder(t *testing.T) {
	var unset *Hand
	finder := finderFunc(func(name string) (Manipulator, bool) {
		if name == "l" {
			return NewHand("l"), true
		}
		return unset, true
	})
	_, err := ResolveHands(finder, "l", "r")
	assert.True(t, errors.Is(err, ErrHandNotFound))
}
