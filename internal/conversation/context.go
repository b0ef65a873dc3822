// Package conversation implements the per-session negotiation state, the
// context updater, the termination policy, and the orchestration engine
// that ties extraction, state, and response generation together.
package conversation

import (
	"fmt"

	"github.com/zulandar/quotewire/internal/extract"
)

// Conversation stages, ordered by informativeness. A context's stage never
// regresses across updates.
const (
	StageInitial       = "initial"
	StageGathering     = "information_gathering"
	StageSufficient    = "sufficient_info"
	StageComprehensive = "comprehensive"
	StageWrappingUp    = "wrapping_up"
)

// stageRank orders stages for the non-regression guarantee.
var stageRank = map[string]int{
	StageInitial:       0,
	StageGathering:     1,
	StageSufficient:    2,
	StageComprehensive: 3,
	StageWrappingUp:    4,
}

// Vendor engagement levels.
const (
	EngagementPositive  = "positive"
	EngagementNeutral   = "neutral"
	EngagementDeclining = "declining"
)

// wrapUpTurn is the turn count at which a still-running conversation moves
// to the wrapping-up stage regardless of what has been collected.
const wrapUpTurn = 8

// Context is the accumulating negotiation state for one session. It is
// owned exclusively by the Store; callers mutate it only through
// Store.Update and read it only through Store.Get snapshots.
type Context struct {
	SessionID            string
	Stage                string
	TurnCount            int
	ItemsDiscussed       []string // set semantics, duplicates collapsed
	PricesReceived       []extract.PriceEntry
	VendorResponses      []string
	Fragments            []extract.Fragment
	Engagement           string
	HasComprehensiveInfo bool
	Frozen               bool
}

// NewContext creates a fresh context for a session.
func NewContext(sessionID string) *Context {
	return &Context{
		SessionID:  sessionID,
		Stage:      StageInitial,
		Engagement: EngagementNeutral,
	}
}

// HasItem reports whether an item name is already in the discussed set.
func (c *Context) HasItem(name string) bool {
	for _, it := range c.ItemsDiscussed {
		if it == name {
			return true
		}
	}
	return false
}

// clone returns a deep copy safe to hand out as a snapshot.
func (c *Context) clone() *Context {
	cp := *c
	cp.ItemsDiscussed = append([]string(nil), c.ItemsDiscussed...)
	cp.PricesReceived = append([]extract.PriceEntry(nil), c.PricesReceived...)
	cp.VendorResponses = append([]string(nil), c.VendorResponses...)
	cp.Fragments = append([]extract.Fragment(nil), c.Fragments...)
	return &cp
}

// computeStage derives the stage from accumulated counts only. Given
// non-decreasing inputs the result is non-decreasing, so replaying the
// same update sequence always lands on the same stage.
func computeStage(turns, items, prices int) string {
	switch {
	case turns >= wrapUpTurn:
		return StageWrappingUp
	case items >= 2 && prices >= 1:
		return StageComprehensive
	case items >= 1 && prices >= 1:
		return StageSufficient
	case turns >= 1:
		return StageGathering
	default:
		return StageInitial
	}
}

// checkInvariant panics when the turn counter and response log disagree,
// which means events were delivered out of order or to the wrong session.
// Downstream termination and aggregation logic assumes this holds, so
// corrupted state must fail loudly rather than propagate.
func (c *Context) checkInvariant() {
	if c.TurnCount != len(c.VendorResponses) {
		panic(fmt.Sprintf("conversation: context %s corrupt: turn_count=%d responses=%d",
			c.SessionID, c.TurnCount, len(c.VendorResponses)))
	}
}
