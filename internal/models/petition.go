package models

import (
	"strings"
	"time"
)

// VoteValue is a vote on a petition
type VoteValue string

const (
	VoteYes VoteValue = "yes"
	VoteNo  VoteValue = "no"

	// VoteNone is reported in a tally for a user who has not voted
	VoteNone VoteValue = "none"
)

// Petition represents a community proposal open to yes/no voting
type Petition struct {
	ID              int       `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Description     string    `json:"description,omitempty" db:"description"`
	CreatedBy       int       `json:"created_by" db:"created_by"`
	CreatorUsername string    `json:"creator_username,omitempty"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// PetitionVote is a single user's vote. There is at most one per (petition, user).
type PetitionVote struct {
	PetitionID int       `json:"petition_id" db:"petition_id"`
	UserID     int       `json:"user_id" db:"user_id"`
	Vote       VoteValue `json:"vote" db:"vote"`
}

// Tally holds live vote counts for a petition
type Tally struct {
	Yes      int       `json:"yes"`
	No       int       `json:"no"`
	UserVote VoteValue `json:"user_vote,omitempty"`
}

// PetitionWithTally is the petition view returned to callers
type PetitionWithTally struct {
	*Petition
	Tally Tally `json:"tally"`
}

// VoteResult reports the outcome of a vote request
type VoteResult struct {
	Recorded bool      `json:"recorded"`
	Created  bool      `json:"created"`
	Vote     VoteValue `json:"vote,omitempty"`
}

// PetitionCreateRequest represents the data needed to create a petition
type PetitionCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatedBy   int    `json:"-"`
}

// ParseVoteValue parses a submitted vote. Only the exact values "yes" and "no"
// are accepted.
func ParseVoteValue(value string) (VoteValue, bool) {
	switch VoteValue(value) {
	case VoteYes:
		return VoteYes, true
	case VoteNo:
		return VoteNo, true
	default:
		return "", false
	}
}

// Validate validates petition creation data
func (req *PetitionCreateRequest) Validate() error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return newValidationError("petition title is required")
	}

	if len(title) > 255 {
		return newValidationError("petition title must be less than 255 characters")
	}

	if req.CreatedBy <= 0 {
		return newValidationError("petition requires a creator")
	}

	return nil
}
