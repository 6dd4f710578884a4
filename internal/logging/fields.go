package logging

// Common structured log field keys to keep logs searchable/consistent.
const (
	FieldService      = "service"
	FieldVersion      = "version"
	FieldSchedule     = "schedule_id"
	FieldConstraint   = "constraint_id"
	FieldScenario     = "scenario_id"
	FieldSport        = "sport"
	FieldCount        = "count"
	FieldScore        = "score"
	FieldCacheHits    = "cache_hits"
	FieldDurationMS   = "duration_ms"
	FieldCollaborator = "collaborator"
	FieldError        = "err"
)
