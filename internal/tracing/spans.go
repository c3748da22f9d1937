package tracing

// Span names and attribute keys recorded by the minimap.
const (
	SpanRefresh  = "minimap.refresh"
	SpanNavigate = "minimap.navigate"

	// Engine attributes
	AttrEngineID = "engine.id"

	// Refresh attributes
	AttrRefreshForced    = "refresh.forced"
	AttrRefreshFirstLine = "refresh.first_line"
	AttrRefreshZoom      = "refresh.zoom"
	AttrRefreshRegions   = "refresh.regions"

	// Navigation attributes
	AttrNavigateLine = "navigate.line"
)
