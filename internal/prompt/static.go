// Package prompt supplies the text for typing challenges.
package prompt

import (
	"context"
	"math/rand"
)

// Fallbacks are used whenever no other source produces a prompt.
var Fallbacks = []string{
	"The quick brown fox jumps over the lazy dog. This pangram contains all the letters of the English alphabet.",
	"Programming is the art of telling another human what one wants the computer to do. It's about thinking clearly and solving problems systematically.",
	"In the world of typing, speed and accuracy are equally important. Practice regularly to improve both aspects of your typing skills.",
	"The best way to predict the future is to invent it. Technology is just a tool. People give technology purpose and meaning.",
	"Success is not final, failure is not fatal: it is the courage to continue that counts. Never give up on your goals.",
	"Believe you can and you're halfway there. Your attitude, not your aptitude, will determine your altitude in life.",
	"The only way to do great work is to love what you do. If you haven't found it yet, keep looking. Don't settle.",
	"Life is 10% what happens to you and 90% how you react to it. Your reaction is your responsibility.",
	"The future belongs to those who believe in the beauty of their dreams. Dream big and work hard to achieve them.",
	"Coding is not just about writing code; it's about solving problems efficiently and elegantly. Think before you type.",
}

// Static picks a random built-in prompt.
type Static struct {
	rnd     *rand.Rand
	prompts []string
}

// NewStatic returns a Static source over prompts, or Fallbacks when empty.
func NewStatic(rnd *rand.Rand, prompts []string) *Static {
	if len(prompts) == 0 {
		prompts = Fallbacks
	}
	return &Static{rnd: rnd, prompts: prompts}
}

// Name implements Source.
func (s *Static) Name() string { return "static" }

// Prompt implements Source. It never fails.
func (s *Static) Prompt(context.Context, int) (string, error) {
	return s.Pick(), nil
}

// Pick returns a random prompt.
func (s *Static) Pick() string {
	return s.prompts[s.rnd.Intn(len(s.prompts))]
}
