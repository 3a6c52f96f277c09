package domain

import "time"

// CallOutcome enumerates the result of a staff call attempt.
type CallOutcome struct {
	ID   int64
	Name OutcomeName
}

// OutcomeName enumerates the canonical call outcomes.
type OutcomeName string

const (
	OutcomeConnected   OutcomeName = "connected"
	OutcomeNoAnswer    OutcomeName = "no_answer"
	OutcomeBusy        OutcomeName = "busy"
	OutcomeWrongNumber OutcomeName = "wrong_number"
)

// CallLog is an append-only record of a staff interaction attempt.
// Entries are never updated or deleted; retrieval is newest-first.
type CallLog struct {
	ID                  int64
	TicketID            int64
	CalledBy            int64
	Outcome             CallOutcome
	DurationSeconds     *int
	Remarks             *string
	NextFollowUpDate    *time.Time
	ResultingStatusID   *int64
	ResultingStatusDate *time.Time
	CreatedAt           time.Time
}
