package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType categorizes log lines for filtering and alerting.
	FieldEventType = "event_type"
	// FieldErrorHint carries the suggested next step for a failure.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldRecordID is the sequential enrollment id for per-record diagnostics.
	FieldRecordID = "record_id"
	// FieldPass is the 1-based ingestion pass number.
	FieldPass = "pass"
	// FieldScore is a match or identification score.
	FieldScore = "score"
	// FieldSessionID is the uuid assigned to one daemon run.
	FieldSessionID = "session_id"
	// FieldProvider names the engine provider in use.
	FieldProvider = "provider"
	// FieldAlert flags anomalies that should stand out in structured logs.
	FieldAlert = "alert"
)
