// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

package pipeline

import (
	"context"
	"fmt"
	"net/http"

	"speakwise/platform/monitor/faults"
)

// The real speech and language backends are external collaborators wired
// in by deployment configuration. These built-in providers keep the
// service runnable end to end without them: deterministic outputs, no
// network, real elapsed time still measured around each call.

// BuiltinTranscriber produces a placeholder transcript sized to the audio
type BuiltinTranscriber struct{}

// Transcribe returns a deterministic transcript for the audio payload
func (BuiltinTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(audio) == 0 {
		return "", faults.NewOperationalError(http.StatusBadRequest, "audio payload required")
	}
	return fmt.Sprintf("transcript of %d audio bytes", len(audio)), nil
}

// ProviderName identifies the transcriber in usage events
func (BuiltinTranscriber) ProviderName() string { return "builtin-stt" }

// BuiltinLanguageModel produces canned coaching analysis
type BuiltinLanguageModel struct{}

// Analyze returns a deterministic analysis of the transcript
func (BuiltinLanguageModel) Analyze(ctx context.Context, transcript string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "Model answer based on: " + transcript, nil
}

// ProviderName identifies the model in usage events
func (BuiltinLanguageModel) ProviderName() string { return "builtin-llm" }

// BuiltinSynthesizer renders text as a placeholder audio payload
type BuiltinSynthesizer struct{}

// Synthesize returns a deterministic audio payload for the text
func (BuiltinSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []byte("AUDIO:" + text), nil
}

// ProviderName identifies the synthesizer in usage events
func (BuiltinSynthesizer) ProviderName() string { return "builtin-tts" }
