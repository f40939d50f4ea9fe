// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

package faults

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"speakwise/platform/shared/logger"
)

// forwardTimeout bounds a single delivery attempt so a slow external sink
// cannot pile up goroutines.
const forwardTimeout = 5 * time.Second

// WebhookForwarder delivers captured faults to an external
// exception-tracking backend over HTTP. Delivery is best-effort and
// at-most-once: failures are logged and dropped.
type WebhookForwarder struct {
	url    string
	client *http.Client
	log    *logger.Logger
}

// NewWebhookForwarder creates a forwarder posting JSON fault records to url
func NewWebhookForwarder(url string, log *logger.Logger) *WebhookForwarder {
	return &WebhookForwarder{
		url:    url,
		client: &http.Client{Timeout: forwardTimeout},
		log:    log,
	}
}

// Forward posts the fault and its context to the tracking endpoint
func (f *WebhookForwarder) Forward(err error, context map[string]interface{}) {
	record := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"context":   context,
	}
	if err != nil {
		record["error"] = err.Error()
	}

	body, marshalErr := json.Marshal(record)
	if marshalErr != nil {
		if f.log != nil {
			f.log.Warn("", "", "Failed to marshal fault record", map[string]interface{}{
				"error": marshalErr.Error(),
			})
		}
		return
	}

	resp, postErr := f.client.Post(f.url, "application/json", bytes.NewReader(body))
	if postErr != nil {
		if f.log != nil {
			f.log.Warn("", "", "Fault forwarding failed", map[string]interface{}{
				"error": postErr.Error(),
			})
		}
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && f.log != nil {
		f.log.Warn("", "", "Fault forwarding rejected", map[string]interface{}{
			"status_code": resp.StatusCode,
		})
	}
}
