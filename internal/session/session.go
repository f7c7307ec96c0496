// ABOUTME: Session holds the per-user conversation state: current step and accumulated selections
// ABOUTME: Mutated only inside Store.Do, one input at a time

package session

import "time"

// Step is the current position in the conversion dialogue.
type Step string

const (
	StepIdle           Step = "idle"
	StepSelectCategory Step = "select_category"
	StepSelectUnitFrom Step = "select_unit_from"
	StepSelectUnitTo   Step = "select_unit_to"
	StepEnterValue     Step = "enter_value"
	StepPostResult     Step = "post_result"
)

// Result is the most recent successful conversion of a session, kept for
// the "save to favorites" and "another value" follow-ups. Ownership of the
// persisted copy belongs to the history store.
type Result struct {
	ID        string
	Category  string
	UnitFrom  string
	UnitTo    string
	Value     float64
	Result    float64
	Formatted string
	CreatedAt time.Time
}

// Session is the per-user conversation state.
type Session struct {
	ID         string
	Step       Step
	Category   string
	UnitFrom   string
	UnitTo     string
	LastResult *Result
	LastSeen   time.Time
}

// Reset returns the session to Idle, dropping accumulated selections and
// the last result. Persisted history and favorites are unaffected.
func (s *Session) Reset() {
	s.Step = StepIdle
	s.Category = ""
	s.UnitFrom = ""
	s.UnitTo = ""
	s.LastResult = nil
}
