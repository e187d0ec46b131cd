package domain

// Severity classifies a conflict's urgency.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ParseSeverity maps a severity name to its tier. Unknown names yield
// ok=false so the caller can fall back to computed severity.
func ParseSeverity(s string) (Severity, bool) {
	switch s {
	case "low":
		return SeverityLow, true
	case "medium":
		return SeverityMedium, true
	case "high":
		return SeverityHigh, true
	case "critical":
		return SeverityCritical, true
	default:
		return SeverityLow, false
	}
}

// ConflictStatus is the client-side lifecycle state of a conflict.
type ConflictStatus string

const (
	ConflictNew          ConflictStatus = "new"
	ConflictAcknowledged ConflictStatus = "acknowledged"
	ConflictResolved     ConflictStatus = "resolved"
)

// JobStatus is the lifecycle state of a scan job.
// pending -> running -> {completed | failed}; both end states terminal.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Terminal reports whether no further transition can occur.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// DowntimeStatus is the approval state of a downtime record. Canonical
// values are English; the backend transmits Russian labels which
// NormalizeDowntimeStatus folds into these.
type DowntimeStatus string

const (
	DowntimeApproved   DowntimeStatus = "approved"
	DowntimePlanned    DowntimeStatus = "planned"
	DowntimeProposed   DowntimeStatus = "proposed"
	DowntimeDiscussion DowntimeStatus = "discussion"
	DowntimeExecuted   DowntimeStatus = "executed"
	DowntimeUnknown    DowntimeStatus = ""
)

// downtimeStatusAliases maps the backend's wire labels to canonical
// statuses. English spellings are accepted for manually entered records.
var downtimeStatusAliases = map[string]DowntimeStatus{
	"утверждено":  DowntimeApproved,
	"план":        DowntimePlanned,
	"предложение": DowntimeProposed,
	"обсуждение":  DowntimeDiscussion,
	"выполнено":   DowntimeExecuted,
	"approved":    DowntimeApproved,
	"planned":     DowntimePlanned,
	"proposed":    DowntimeProposed,
	"discussion":  DowntimeDiscussion,
	"executed":    DowntimeExecuted,
}

// NormalizeDowntimeStatus folds a wire status label into the canonical
// set. Unrecognized labels normalize to DowntimeUnknown.
func NormalizeDowntimeStatus(s string) DowntimeStatus {
	if st, ok := downtimeStatusAliases[s]; ok {
		return st
	}
	return DowntimeUnknown
}

// Priority returns the backend's numeric status priority, used both for
// ordering and for the severity boost (approved/executed rank highest).
func (s DowntimeStatus) Priority() int {
	switch s {
	case DowntimeApproved:
		return 5
	case DowntimeExecuted:
		return 4
	case DowntimePlanned:
		return 3
	case DowntimeProposed:
		return 2
	case DowntimeDiscussion:
		return 1
	default:
		return 0
	}
}

// DowntimeSource identifies how a downtime record was produced.
type DowntimeSource string

const (
	SourceLLM      DowntimeSource = "llm"
	SourceFallback DowntimeSource = "fallback"
	SourceManual   DowntimeSource = "manual"
)

// EventLevel is the importance level of a notification event.
type EventLevel string

const (
	LevelInfo    EventLevel = "info"
	LevelWarning EventLevel = "warning"
	LevelError   EventLevel = "error"
	LevelSuccess EventLevel = "success"
)

// Notification event codes emitted by the backend.
const (
	CodeValidationError      = "VALIDATION_ERROR"
	CodeNotFound             = "NOT_FOUND"
	CodeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
	CodePayloadTooLarge      = "PAYLOAD_TOO_LARGE"
	CodeLLMTimeout           = "LLM_TIMEOUT"
	CodeLLMBadJSON           = "LLM_BAD_JSON"
	CodeLLMUnavailable       = "LLM_UNAVAILABLE"
	CodeAliasUnknown         = "ALIAS_UNKNOWN"
	CodePlanDateCoerced      = "PLAN_DATE_COERCED"
	CodeMinutesDuplicate     = "MINUTES_DUPLICATE_FILE"
	CodeConflictDetected     = "CONFLICT_DETECTED"
	CodeExportEmpty          = "EXPORT_EMPTY"
)
