package application

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("application not found")
	ErrAlreadyApplied    = errors.New("already applied")
	ErrUnknownListing    = errors.New("listing is not stored")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type Status string

const (
	StatusApplied     Status = "applied"
	StatusShortlisted Status = "shortlisted"
	StatusRejected    Status = "rejected"
	StatusOffered     Status = "offered"
	StatusWithdrawn   Status = "withdrawn"
)

func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusApplied, StatusShortlisted, StatusRejected, StatusOffered, StatusWithdrawn:
		return st, true
	default:
		return "", false
	}
}

var transitions = map[Status][]Status{
	StatusApplied:     {StatusShortlisted, StatusRejected},
	StatusShortlisted: {StatusOffered, StatusRejected},
}

// CanTransition reports whether a recruiter may move an application from one
// status to another. Withdrawing is the student's move and is handled apart.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusOffered || s == StatusWithdrawn
}

type Application struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	InternshipID uuid.UUID `json:"internship_id"`
	Status       Status    `json:"status"`
	Note         string    `json:"note,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
