// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

package pipeline

import (
	"fmt"
	"strings"
)

// fillerWords are hedges counted against fluency
var fillerWords = map[string]bool{
	"um":       true,
	"uh":       true,
	"like":     true,
	"basically": true,
	"actually": true,
	"literally": true,
}

// Feedback is the trainee-facing scoring of one session
type Feedback struct {
	Score          int      `json:"score"`
	WordCount      int      `json:"word_count"`
	WordsPerMinute float64  `json:"words_per_minute"`
	FillerCount    int      `json:"filler_count"`
	Suggestions    []string `json:"suggestions"`
}

// GenerateFeedback scores a transcript for pace and fluency. It is a pure
// computation; the pipeline times it as its own stage.
func GenerateFeedback(transcript string, audioSeconds float64) Feedback {
	words := strings.Fields(transcript)

	fillers := 0
	for _, w := range words {
		if fillerWords[strings.ToLower(strings.Trim(w, ".,!?"))] {
			fillers++
		}
	}

	var wpm float64
	if audioSeconds > 0 {
		wpm = float64(len(words)) / (audioSeconds / 60)
	}

	score := 100
	var suggestions []string

	// Conversational pace sits roughly between 110 and 170 wpm
	switch {
	case len(words) == 0:
		score = 0
		suggestions = append(suggestions, "No speech detected in this recording.")
	case wpm > 0 && wpm < 110:
		score -= 15
		suggestions = append(suggestions, fmt.Sprintf("Your pace of %.0f words per minute is on the slow side; aim for 110-170.", wpm))
	case wpm > 170:
		score -= 15
		suggestions = append(suggestions, fmt.Sprintf("Your pace of %.0f words per minute is fast; aim for 110-170.", wpm))
	}

	if len(words) > 0 && fillers > 0 {
		ratio := float64(fillers) / float64(len(words))
		penalty := int(ratio * 100)
		if penalty > 40 {
			penalty = 40
		}
		score -= penalty
		if ratio > 0.05 {
			suggestions = append(suggestions, fmt.Sprintf("Found %d filler words; try pausing instead of saying \"um\" or \"like\".", fillers))
		}
	}

	if score < 0 {
		score = 0
	}

	return Feedback{
		Score:          score,
		WordCount:      len(words),
		WordsPerMinute: wpm,
		FillerCount:    fillers,
		Suggestions:    suggestions,
	}
}
