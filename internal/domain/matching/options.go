package matching

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithMissingCoordinatesPolicy sets how the radius check treats
// missing coordinates on either side.
func WithMissingCoordinatesPolicy(policy MissingCoordinatesPolicy) Option {
	return func(e *Engine) {
		e.coordPolicy = policy
	}
}

// ParseMissingCoordinatesPolicy maps a config string to a policy.
// Accepts "match_anywhere" (default) and "require_coordinates".
func ParseMissingCoordinatesPolicy(s string) MissingCoordinatesPolicy {
	if s == "require_coordinates" {
		return RequireCoordinates
	}
	return MatchAnywhere
}
