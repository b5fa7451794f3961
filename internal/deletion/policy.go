package deletion

import (
	"fmt"
)

// Action is advisory metadata for the UI follow-up affordance.
type Action string

const (
	ActionRetry   Action = "retry"
	ActionReauth  Action = "reauth"
	ActionRefresh Action = "refresh"
	ActionNone    Action = "none"
)

// Severity drives notification presentation.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Guidance is the user-facing resolution for a classified failure.
type Guidance struct {
	Message   string   `json:"message"`
	Action    Action   `json:"action"`
	Severity  Severity `json:"severity"`
	Retryable bool     `json:"retryable"`
}

// guidanceTable is the single source of truth for retry eligibility.
// Changing retry behavior means changing this table, not call sites.
// CategoryDefault is rendered in Resolve because its message carries
// the entity label.
var guidanceTable = map[Category]Guidance{
	CategoryNetwork: {
		Message:   "Connection problem. Check your network and try again.",
		Action:    ActionRetry,
		Severity:  SeverityWarning,
		Retryable: true,
	},
	CategoryPermission: {
		Message:   "You don't have permission to delete this project. Sign in again.",
		Action:    ActionReauth,
		Severity:  SeverityError,
		Retryable: false,
	},
	CategoryNotFound: {
		Message:   "This project was already deleted. Refresh to update the list.",
		Action:    ActionRefresh,
		Severity:  SeverityInfo,
		Retryable: false,
	},
	CategoryTimeout: {
		Message:   "The request timed out. Try again in a moment.",
		Action:    ActionRetry,
		Severity:  SeverityWarning,
		Retryable: true,
	},
	CategoryConflict: {
		Message:   "This project was changed elsewhere. Refresh and try again.",
		Action:    ActionRefresh,
		Severity:  SeverityWarning,
		Retryable: false,
	},
}

// Resolve classifies err and returns the guidance for its category.
// The default entry interpolates the entity label; an empty label is
// acceptable and simply yields a message with an empty name.
func Resolve(err error, entityLabel string) Guidance {
	if g, ok := guidanceTable[Classify(err)]; ok {
		return g
	}
	return Guidance{
		Message:   fmt.Sprintf("Failed to delete %q. Try again.", entityLabel),
		Action:    ActionRetry,
		Severity:  SeverityError,
		Retryable: true,
	}
}
