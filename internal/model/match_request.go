package model

import (
	"fmt"
	"time"

	"anoa.com/mentormatch/pkg/apperror"
)

type MatchStatus string

const (
	MatchPending   MatchStatus = "pending"
	MatchAccepted  MatchStatus = "accepted"
	MatchRejected  MatchStatus = "rejected"
	MatchCancelled MatchStatus = "cancelled"
)

// Terminal reports whether no further transition can leave this status.
func (s MatchStatus) Terminal() bool {
	return s == MatchAccepted || s == MatchRejected || s == MatchCancelled
}

type MatchAction string

const (
	ActionAccept MatchAction = "accept"
	ActionReject MatchAction = "reject"
	ActionCancel MatchAction = "cancel"
)

type MatchRequest struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	MentorID  uint        `gorm:"not null;index" json:"mentorId"`
	MenteeID  uint        `gorm:"not null;index" json:"menteeId"`
	Message   string      `gorm:"type:text" json:"message"`
	Status    MatchStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

// matchTransition is a single allowed edge in the request lifecycle.
type matchTransition struct {
	Actor  Role
	From   MatchStatus
	Action MatchAction
	To     MatchStatus
}

// matchTransitions is the single authority for who may move a request
// between which statuses. Every role check on accept/reject/cancel goes
// through this table; handlers and services never re-derive the rules.
var matchTransitions = []matchTransition{
	{Actor: RoleMentor, From: MatchPending, Action: ActionAccept, To: MatchAccepted},
	{Actor: RoleMentor, From: MatchPending, Action: ActionReject, To: MatchRejected},
	{Actor: RoleMentee, From: MatchPending, Action: ActionCancel, To: MatchCancelled},
}

// NextStatus resolves the status a request moves to when actor performs
// action on a request currently in from. A role that may never perform
// the action gets a forbidden error; a legal role acting on a request
// that already left pending gets a conflict error.
func NextStatus(actor Role, from MatchStatus, action MatchAction) (MatchStatus, error) {
	actionKnown := false
	for _, tr := range matchTransitions {
		if tr.Action != action {
			continue
		}
		actionKnown = true
		if tr.Actor != actor {
			continue
		}
		if tr.From == from {
			return tr.To, nil
		}
		return "", apperror.Conflict(fmt.Sprintf("cannot %s a request that is already %s", action, from))
	}

	if !actionKnown {
		return "", apperror.Validation(fmt.Sprintf("unknown action %q", action))
	}
	return "", apperror.Forbidden(fmt.Sprintf("only a %s can %s a match request", requiredActor(action), action))
}

// Transition applies action on behalf of actor, mutating the request
// status exactly once or leaving it untouched on error.
func (m *MatchRequest) Transition(actor Role, action MatchAction) error {
	next, err := NextStatus(actor, m.Status, action)
	if err != nil {
		return err
	}
	m.Status = next
	return nil
}

// PartyFor returns which side of the request the action belongs to, so
// ownership can be checked against the right column.
func PartyFor(action MatchAction) Role {
	return requiredActor(action)
}

func requiredActor(action MatchAction) Role {
	for _, tr := range matchTransitions {
		if tr.Action == action {
			return tr.Actor
		}
	}
	return ""
}
