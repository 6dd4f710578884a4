package metrics

// Attribute keys shared by the otel instruments.
const (
	AttrConstraint = "constraint_id"
	AttrCacheHit   = "cache_hit"
)
