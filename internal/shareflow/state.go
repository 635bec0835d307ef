package shareflow

// State is the share screen's current position in the flow.
type State int

const (
	// StateNoTarget means nothing is being shared.
	StateNoTarget State = iota
	// StateConfiguring means a target is active and the sharer is picking
	// expiry, password, and community options.
	StateConfiguring
	// StateLinkGenerated means a link exists for the active target.
	StateLinkGenerated
)

func (s State) String() string {
	switch s {
	case StateNoTarget:
		return "no-target"
	case StateConfiguring:
		return "configuring"
	case StateLinkGenerated:
		return "link-generated"
	default:
		return "unknown"
	}
}
