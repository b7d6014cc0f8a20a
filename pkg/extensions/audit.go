// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package extensions

import (
	"context"
	"time"
)

// AuditEvent represents a security-relevant event for compliance logging.
//
// # Event Categories
//
// Events are categorized by type for filtering and alerting:
//   - Authentication: "auth.login", "auth.failed"
//   - API: "api.evaluate", "api.verify"
//   - System: "system.start", "system.stop", "system.error"
//
// # Compliance Fields
//
// For regulatory compliance, always populate:
//   - UserID: Required for GDPR right-to-know requests
//   - Timestamp: Required for audit trail integrity
//   - ResourceType/ResourceID: Required for data lineage
//
// Example:
//
//	event := AuditEvent{
//	    EventType:    "api.evaluate",
//	    Timestamp:    time.Now().UTC(),
//	    UserID:       authInfo.UserID,
//	    Action:       "evaluate",
//	    ResourceType: "evaluation",
//	    ResourceID:   evaluationID,
//	    Outcome:      "success",
//	}
type AuditEvent struct {
	// EventType categorizes the event for filtering and alerting.
	// Format: "category.action" (e.g., "auth.login", "api.evaluate")
	EventType string

	// Timestamp is when the event occurred (always use UTC).
	// If zero, implementations should set to time.Now().UTC().
	Timestamp time.Time

	// UserID identifies who performed the action.
	// Use "system" for automated actions, "anonymous" if unknown.
	UserID string

	// Action describes what operation was attempted.
	// Common values: "evaluate", "verify", "read"
	Action string

	// ResourceType is the category of resource involved.
	// Examples: "evaluation", "verification"
	ResourceType string

	// ResourceID is the specific resource instance (optional).
	ResourceID string

	// Outcome indicates the result of the action.
	// Values: "success", "failure", "blocked", "error"
	Outcome string

	// Metadata holds additional event-specific data.
	//
	// Common metadata keys:
	//   - "status": HTTP status code
	//   - "duration_ms": operation duration for performance analysis
	//   - "jurisdiction": compliance regime applied to the evaluation
	Metadata map[string]any
}

// AuditLogger records security-relevant events for compliance and analysis.
//
// Implementations must be safe for concurrent use by multiple goroutines.
// The Log method should be non-blocking or have reasonable timeouts to
// avoid impacting request latency.
//
// # Open Source Behavior
//
// The default NopAuditLogger discards all events. This is appropriate for
// local single-user deployments where audit trails aren't required.
//
// # Enterprise Implementation
//
// Enterprise versions send events to SIEM systems (Splunk, Datadog, ELK)
// or compliance databases, keyed by the evaluation ID so a scored answer
// can be traced back to who requested the evaluation and when.
type AuditLogger interface {
	// Log records a security-relevant event.
	//
	// Implementations should set Timestamp if zero, persist or transmit
	// the event, and return quickly (use async buffering if needed).
	Log(ctx context.Context, event AuditEvent) error

	// Flush ensures all buffered events are persisted. Call before
	// shutdown to prevent event loss; sync implementations may no-op.
	Flush(ctx context.Context) error
}

// NopAuditLogger is the default audit logger for open source builds.
// It discards all events without recording them.
//
// Thread-safe: this implementation has no mutable state.
type NopAuditLogger struct{}

// Log discards the event without recording it.
func (l *NopAuditLogger) Log(_ context.Context, _ AuditEvent) error {
	return nil
}

// Flush is a no-op since nothing is buffered.
func (l *NopAuditLogger) Flush(_ context.Context) error {
	return nil
}

var _ AuditLogger = (*NopAuditLogger)(nil)
