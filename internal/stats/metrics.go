package stats

import (
	"math"
	"time"
)

// minElapsedMinutes keeps WPM finite right after a session starts.
const minElapsedMinutes = 0.001

// CharsPerWord is the standard word length used for WPM.
const CharsPerWord = 5.0

// Metrics is a rounded speed/accuracy pair.
type Metrics struct {
	WPM      int
	Accuracy int
}

// Round rounds half up, matching how scores have always been displayed.
func Round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// LiveMetrics computes speed and accuracy from the characters typed so far.
// Accuracy is 100 until something has been typed.
func LiveMetrics(correct, incorrect int, elapsed time.Duration) Metrics {
	typed := correct + incorrect
	words := float64(typed) / CharsPerWord
	m := Metrics{
		WPM:      Round(words / clampMinutes(elapsed)),
		Accuracy: 100,
	}
	if typed > 0 {
		m.Accuracy = Round(float64(correct) / float64(typed) * 100)
	}
	return m
}

// FinalMetrics computes the authoritative result for a completed prompt. WPM
// is based on the prompt length, not on what was typed.
func FinalMetrics(promptLen, correct int, elapsed time.Duration) Metrics {
	words := float64(promptLen) / CharsPerWord
	m := Metrics{
		WPM:      Round(words / clampMinutes(elapsed)),
		Accuracy: 100,
	}
	if promptLen > 0 {
		m.Accuracy = Round(float64(correct) / float64(promptLen) * 100)
	}
	return m
}

// WordsFor converts a character count to words.
func WordsFor(chars int) float64 {
	return float64(chars) / CharsPerWord
}

func clampMinutes(elapsed time.Duration) float64 {
	minutes := elapsed.Minutes()
	if minutes < minElapsedMinutes {
		return minElapsedMinutes
	}
	return minutes
}
