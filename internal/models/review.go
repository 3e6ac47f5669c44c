package models

import (
	"strings"
	"time"
)

// ReviewStatus represents the lifecycle state of a code review.
type ReviewStatus string

const (
	ReviewStatusInProgress ReviewStatus = "IN_PROGRESS"
	ReviewStatusCompleted  ReviewStatus = "COMPLETED"
	ReviewStatusFailed     ReviewStatus = "FAILED"
)

// Severity represents how serious an issue is.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// CanonicalSeverity maps free-form model output to a known severity.
// Unrecognized or empty values fall back to LOW.
func CanonicalSeverity(s string) Severity {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HIGH":
		return SeverityHigh
	case "MEDIUM":
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Review represents one submitted code snippet and its lifecycle status.
// Code content is write-once: only Status changes after creation.
type Review struct {
	ID          string
	FileName    string
	CodeContent string
	Status      ReviewStatus
	CreatedAt   time.Time
}

// Issue is a single finding attached to a review.
type Issue struct {
	ID          string
	ReviewID    string
	Severity    Severity
	Description string
	LineNumber  int
	CreatedAt   time.Time
}

// Metric holds the normalized 0-100 scores for a completed review.
// At most one metric row exists per review.
type Metric struct {
	ID              string
	ReviewID        string
	Complexity      int
	Maintainability int
	SecurityScore   int
	CreatedAt       time.Time
}

// HistoryAction identifies the kind of review state change recorded.
type HistoryAction string

const (
	HistoryActionStatusChange HistoryAction = "STATUS_CHANGE"
)

// HistoryEntry is one append-only audit record for a review.
type HistoryEntry struct {
	ID        string
	ReviewID  string
	Action    HistoryAction
	Details   string
	CreatedAt time.Time
}
