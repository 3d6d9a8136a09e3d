package snapsocket

import (
	"fmt"
	"reflect"
)

// Manipulator is a user-controlled hand. Its active selection is the object
// it currently holds.
type Manipulator interface {
	Selection() (uint64, bool)
}

// GrabQuery answers whether an object is held by any hand.
type GrabQuery interface {
	IsHeld(id uint64) bool
}

// Hand is a Manipulator holding an ordered list of selected interactables.
// The first entry is the active selection.
type Hand struct {
	Name     string
	selected []uint64
}

func NewHand(name string) *Hand {
	return &Hand{Name: name}
}

func (h *Hand) Select(id uint64) {
	for _, s := range h.selected {
		if s == id {
			return
		}
	}
	h.selected = append(h.selected, id)
}

func (h *Hand) Deselect(id uint64) {
	idx := -1
	for i, s := range h.selected {
		if s == id {
			idx = i
		}
	}
	if idx != -1 {
		h.selected = append(h.selected[:idx], h.selected[idx+1:]...)
	}
}

func (h *Hand) Clear() {
	h.selected = nil
}

func (h *Hand) HasSelection() bool {
	return len(h.selected) > 0
}

func (h *Hand) Selection() (uint64, bool) {
	if !h.HasSelection() {
		return 0, false
	}
	return h.selected[0], true
}

// Hands is the GrabQuery shared by every socket in a scene.
type Hands struct {
	Left  Manipulator
	Right Manipulator
}

// IsHeld reports whether either hand's active selection is id.
func (h *Hands) IsHeld(id uint64) bool {
	for _, m := range []Manipulator{h.Right, h.Left} {
		if sel, ok := m.Selection(); ok && sel == id {
			return true
		}
	}
	return false
}

// HandFinder looks manipulators up by scene name.
type HandFinder interface {
	FindHand(name string) (Manipulator, bool)
}

// HandSet is a HandFinder backed by a map.
type HandSet map[string]Manipulator

func (s HandSet) FindHand(name string) (Manipulator, bool) {
	m, ok := s[name]
	return m, ok && !isNilManipulator(m)
}

// isNilManipulator also catches a nil pointer stored in the interface.
func isNilManipulator(m Manipulator) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Func, reflect.Interface, reflect.Slice, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// ResolveHands performs the one-time startup lookup of both hands.
func ResolveHands(f HandFinder, left, right string) (*Hands, error) {
	l, ok := f.FindHand(left)
	if !ok || isNilManipulator(l) {
		return nil, fmt.Errorf("%w: %q", ErrHandNotFound, left)
	}
	r, ok := f.FindHand(right)
	if !ok || isNilManipulator(r) {
		return nil, fmt.Errorf("%w: %q", ErrHandNotFound, right)
	}
	return &Hands{Left: l, Right: r}, nil
}
