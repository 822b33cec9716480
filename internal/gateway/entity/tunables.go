package entity

// TunableUpdate carries the agent proxy settings that may be changed through
// the gateway. Nil fields were not provided by the caller and must not be
// forwarded.
type TunableUpdate struct {
	MaxToolCalls    *int
	MaxRounds       *int
	IncludeTests    *bool
	DeepExploration *bool
	TimeoutSeconds  *int
}

// Fields returns only the provided settings, keyed by the agent proxy's field
// names.
func (u TunableUpdate) Fields() map[string]any {
	fields := make(map[string]any)

	if u.MaxToolCalls != nil {
		fields["max_tool_calls"] = *u.MaxToolCalls
	}
	if u.MaxRounds != nil {
		fields["max_rounds"] = *u.MaxRounds
	}
	if u.IncludeTests != nil {
		fields["include_tests"] = *u.IncludeTests
	}
	if u.DeepExploration != nil {
		fields["deep_exploration"] = *u.DeepExploration
	}
	if u.TimeoutSeconds != nil {
		fields["timeout_seconds"] = *u.TimeoutSeconds
	}

	return fields
}
