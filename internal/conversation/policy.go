package conversation

// Termination reasons, in priority order.
const (
	ReasonVendorDisengaged  = "vendor_disengaged"
	ReasonComprehensiveInfo = "comprehensive_info_collected"
	ReasonTooLong           = "conversation_too_long"
	ReasonSufficientInfo    = "sufficient_info_gathered"
	ReasonUnresponsive      = "vendor_unresponsive"
	ReasonNone              = "none"
)

// Turn thresholds for the termination rules.
const (
	disengagedMinTurns    = 3
	comprehensiveMinTurns = 4
	maxTurns              = 10
	sufficientMinTurns    = 6
	unresponsiveWindow    = 3
)

// Decision is the output of the termination policy.
type Decision struct {
	ShouldEnd bool
	Reason    string
}

// Decide evaluates the termination rules in fixed priority order, first
// match wins. It is a pure function of the context snapshot: it never
// mutates state, and the same context always yields the same decision.
func Decide(c *Context) Decision {
	if c.Engagement == EngagementDeclining && c.TurnCount >= disengagedMinTurns {
		return Decision{ShouldEnd: true, Reason: ReasonVendorDisengaged}
	}
	if c.HasComprehensiveInfo && c.TurnCount >= comprehensiveMinTurns {
		return Decision{ShouldEnd: true, Reason: ReasonComprehensiveInfo}
	}
	if c.TurnCount >= maxTurns {
		return Decision{ShouldEnd: true, Reason: ReasonTooLong}
	}
	if (c.Stage == StageSufficient || c.Stage == StageWrappingUp) &&
		c.TurnCount >= sufficientMinTurns && len(c.ItemsDiscussed) >= 1 {
		return Decision{ShouldEnd: true, Reason: ReasonSufficientInfo}
	}
	if trailingSilence(c.VendorResponses) {
		return Decision{ShouldEnd: true, Reason: ReasonUnresponsive}
	}
	return Decision{Reason: ReasonNone}
}

// trailingSilence reports whether the last three responses were all below
// the minimal-content threshold.
func trailingSilence(responses []string) bool {
	if len(responses) < unresponsiveWindow {
		return false
	}
	for _, r := range responses[len(responses)-unresponsiveWindow:] {
		if isMeaningful(r) {
			return false
		}
	}
	return true
}
