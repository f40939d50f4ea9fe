// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateFeedback(t *testing.T) {
	tests := []struct {
		name         string
		transcript   string
		audioSeconds float64
		wantScore    int
		wantFillers  int
	}{
		{
			name:         "clean delivery at good pace",
			transcript:   strings.Repeat("steady words flowing nicely here ", 28), // 140 words
			audioSeconds: 60,
			wantScore:    100,
			wantFillers:  0,
		},
		{
			name:         "empty transcript scores zero",
			transcript:   "",
			audioSeconds: 30,
			wantScore:    0,
			wantFillers:  0,
		},
		{
			name:         "fillers are counted case-insensitively",
			transcript:   "Um so this is, like, my Answer basically " + strings.Repeat("word ", 100),
			audioSeconds: 45,
			wantFillers:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := GenerateFeedback(tt.transcript, tt.audioSeconds)
			if tt.wantScore != 0 || tt.transcript == "" {
				assert.Equal(t, tt.wantScore, fb.Score)
			}
			assert.Equal(t, tt.wantFillers, fb.FillerCount)
		})
	}
}

func TestGenerateFeedbackSlowPacePenalized(t *testing.T) {
	// 30 words over 60 seconds = 30 wpm
	fb := GenerateFeedback(strings.Repeat("slow ", 30), 60)
	assert.Less(t, fb.Score, 100)
	assert.NotEmpty(t, fb.Suggestions)
	assert.InDelta(t, 30.0, fb.WordsPerMinute, 0.1)
}

func TestGenerateFeedbackZeroDurationSkipsPace(t *testing.T) {
	fb := GenerateFeedback("some words here", 0)
	assert.Equal(t, 0.0, fb.WordsPerMinute)
	assert.Equal(t, 3, fb.WordCount)
}

func TestGenerateFeedbackScoreNeverNegative(t *testing.T) {
	fb := GenerateFeedback("um uh like um uh like", 1)
	assert.GreaterOrEqual(t, fb.Score, 0)
}
