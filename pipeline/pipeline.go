// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

package pipeline

import (
	"context"
	"net/http"

	"speakwise/platform/common/usage"
	"speakwise/platform/monitor/faults"
	"speakwise/platform/monitor/latency"
	"speakwise/platform/shared/logger"
)

// Latency buckets tracked around each pipeline stage
const (
	BucketSpeechToText       = "speech-to-text"
	BucketLanguageModel      = "language-model"
	BucketSpeechSynthesis    = "speech-synthesis"
	BucketFeedbackGeneration = "feedback-generation"
)

// Transcriber converts recorded audio into a transcript
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// LanguageModel produces coaching analysis and a model answer for a transcript
type LanguageModel interface {
	Analyze(ctx context.Context, transcript string) (string, error)
}

// Synthesizer renders the model answer as audio
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Request is one practice session submitted for analysis
type Request struct {
	SessionID    string
	ActorID      string
	Audio        []byte
	AudioSeconds float64
}

// Result is the full analysis of a practice session
type Result struct {
	SessionID  string   `json:"session_id"`
	Transcript string   `json:"transcript"`
	Analysis   string   `json:"analysis"`
	ModelAudio []byte   `json:"model_audio,omitempty"`
	Feedback   Feedback `json:"feedback"`
}

// Pipeline runs the session-analysis stages in order, instrumenting each
// with the latency tracker and accounting resource consumption per actor.
type Pipeline struct {
	stt Transcriber
	llm LanguageModel
	tts Synthesizer

	tracker    *latency.Tracker
	acct       *usage.Accountant
	recorder   *usage.Recorder
	log        *logger.Logger
	instanceID string
}

// New creates a pipeline over the given providers and telemetry. The
// recorder and logger may be nil.
func New(stt Transcriber, llm LanguageModel, tts Synthesizer,
	tracker *latency.Tracker, acct *usage.Accountant,
	recorder *usage.Recorder, log *logger.Logger, instanceID string) *Pipeline {
	tracker.Declare(BucketSpeechToText, BucketLanguageModel,
		BucketSpeechSynthesis, BucketFeedbackGeneration)
	return &Pipeline{
		stt:        stt,
		llm:        llm,
		tts:        tts,
		tracker:    tracker,
		acct:       acct,
		recorder:   recorder,
		log:        log,
		instanceID: instanceID,
	}
}

// Analyze runs speech-to-text, language-model analysis, speech synthesis,
// and feedback generation for one session. The call is tracked as started
// when it enters and completed only if every stage succeeds; a stage error
// propagates to the boundary and the call stays uncompleted in the ledger.
func (p *Pipeline) Analyze(ctx context.Context, req Request) (*Result, error) {
	if len(req.Audio) == 0 {
		return nil, faults.NewOperationalError(http.StatusBadRequest, "audio payload required")
	}
	if req.AudioSeconds < 0 {
		return nil, faults.NewOperationalError(http.StatusBadRequest, "audio duration must be non-negative")
	}

	p.acct.TrackCallStart(req.ActorID)
	p.acct.TrackResourceUsage(req.ActorID, req.AudioSeconds)

	meta := map[string]interface{}{"session_id": req.SessionID}

	stop := p.tracker.Start(BucketSpeechToText, meta)
	transcript, err := p.stt.Transcribe(ctx, req.Audio)
	sttMs := stop()
	if err != nil {
		return nil, err
	}

	stop = p.tracker.Start(BucketLanguageModel, meta)
	analysis, err := p.llm.Analyze(ctx, transcript)
	llmMs := stop()
	if err != nil {
		return nil, err
	}
	p.acct.TrackLLM(req.ActorID)
	p.recordModel(req, "llm", llmMs)

	stop = p.tracker.Start(BucketSpeechSynthesis, meta)
	modelAudio, err := p.tts.Synthesize(ctx, analysis)
	ttsMs := stop()
	if err != nil {
		return nil, err
	}
	p.acct.TrackTTS(req.ActorID)
	p.recordModel(req, "tts", ttsMs)

	stop = p.tracker.Start(BucketFeedbackGeneration, meta)
	feedback := GenerateFeedback(transcript, req.AudioSeconds)
	stop()

	p.acct.TrackCallEnd(req.ActorID)

	if p.log != nil {
		p.log.InfoWithDuration(req.ActorID, "", "Session analyzed",
			float64(sttMs+llmMs+ttsMs), map[string]interface{}{
				"session_id": req.SessionID,
				"stt_ms":     sttMs,
				"llm_ms":     llmMs,
				"tts_ms":     ttsMs,
			})
	}

	return &Result{
		SessionID:  req.SessionID,
		Transcript: transcript,
		Analysis:   analysis,
		ModelAudio: modelAudio,
		Feedback:   feedback,
	}, nil
}

// recordModel writes a best-effort model request event to the analytics store
func (p *Pipeline) recordModel(req Request, kind string, ms int64) {
	if p.recorder == nil {
		return
	}
	provider := "builtin"
	switch kind {
	case "llm":
		provider = providerName(p.llm)
	case "tts":
		provider = providerName(p.tts)
	}
	_ = p.recorder.RecordModelRequest(usage.ModelRequestEvent{
		ActorID:     req.ActorID,
		SessionID:   req.SessionID,
		InstanceID:  p.instanceID,
		RequestKind: kind,
		Provider:    provider,
		LatencyMs:   ms,
		StatusCode:  http.StatusOK,
	})
}

// providerName resolves the reporting name of a provider implementation
func providerName(v interface{}) string {
	if n, ok := v.(interface{ ProviderName() string }); ok {
		return n.ProviderName()
	}
	return "builtin"
}
