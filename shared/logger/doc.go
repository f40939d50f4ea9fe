// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

/*
Package logger provides structured JSON logging for SpeakWise components.

# Overview

The logger outputs single-line JSON to stdout, making logs easily consumable
by CloudWatch, ELK, or other log aggregation systems.

Each entry includes:
  - Timestamp (RFC3339Nano format)
  - Log level (DEBUG, INFO, WARN, ERROR, FATAL)
  - Component name (server, pipeline, etc.)
  - Instance ID and container name (for distributed tracing)
  - Actor ID (the trainee or caller the entry is attributed to)
  - Request ID (for request correlation)
  - Custom fields

# Usage

Create a logger for your component:

	log := logger.New("server")

Log messages with actor and request context:

	log.Info("trainee-123", "req-456", "Processing session", map[string]interface{}{
	    "method": "POST",
	    "path":   "/api/v1/sessions/analyze",
	})

Log errors with status codes:

	log.ErrorWithCode("trainee-123", "req-456", "Request failed", 500, err, nil)

# Environment Variables

  - INSTANCE_ID: Deployment instance identifier
  - LOG_LEVEL: Minimum level emitted (default INFO)

# Thread Safety

Logger instances are safe for concurrent use from multiple goroutines.
*/
package logger
