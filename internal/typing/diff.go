// Package typing classifies typed input against a target prompt.
package typing

import "errors"

// SpaceGlyph replaces spaces when the prompt is rendered.
const SpaceGlyph = '·'

// ErrInvalidEdit is returned for any change other than a single rune appended
// to or removed from the end of the input.
var ErrInvalidEdit = errors.New("input may only grow or shrink by one rune at the end")

// Class is the classification of one prompt position.
type Class int

const (
	// Untyped positions are at or past the end of the input.
	Untyped Class = iota
	// Correct positions match the prompt.
	Correct
	// Incorrect positions differ from the prompt.
	Incorrect
)

// String implements fmt.Stringer.
func (c Class) String() string {
	switch c {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "untyped"
	}
}

// Classify compares input to prompt position by position.
func Classify(prompt, input []rune) []Class {
	out := make([]Class, len(prompt))
	for i := range prompt {
		if i >= len(input) {
			out[i] = Untyped
			continue
		}
		if input[i] == prompt[i] {
			out[i] = Correct
		} else {
			out[i] = Incorrect
		}
	}
	return out
}

// Counts returns the number of correct and incorrect typed positions.
func Counts(prompt, input []rune) (correct, incorrect int) {
	for i, r := range input {
		if i >= len(prompt) {
			break
		}
		if r == prompt[i] {
			correct++
		} else {
			incorrect++
		}
	}
	return correct, incorrect
}

// Complete reports whether the input covers the whole prompt.
func Complete(prompt, input []rune) bool {
	return len(prompt) > 0 && len(input) == len(prompt)
}

// ValidateEdit checks that next is prev with one rune appended or removed at
// the end, and that next does not run past the prompt.
func ValidateEdit(prompt, prev, next []rune) error {
	if len(next) > len(prompt) {
		return ErrInvalidEdit
	}
	switch len(next) - len(prev) {
	case 0:
		if !equalRunes(prev, next) {
			return ErrInvalidEdit
		}
	case 1:
		if !equalRunes(prev, next[:len(prev)]) {
			return ErrInvalidEdit
		}
	case -1:
		if !equalRunes(prev[:len(next)], next) {
			return ErrInvalidEdit
		}
	default:
		return ErrInvalidEdit
	}
	return nil
}

// LastError returns the most recently typed rune when it does not match the
// prompt. Only this rune is fed to the error heatmap on each keystroke.
func LastError(prompt, input []rune) (rune, bool) {
	idx := len(input) - 1
	if idx < 0 || idx >= len(prompt) {
		return 0, false
	}
	if input[idx] == prompt[idx] {
		return 0, false
	}
	return input[idx], true
}

// DisplayRune returns the rune drawn for a prompt position.
func DisplayRune(r rune) rune {
	if r == ' ' {
		return SpaceGlyph
	}
	return r
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
