package model

import "time"

type SubmissionStatus string

const (
	StatusCompiling SubmissionStatus = "compiling"
	StatusPassed    SubmissionStatus = "passed"
	StatusFailed    SubmissionStatus = "failed"
)

func (s SubmissionStatus) Valid() bool {
	switch s {
	case StatusCompiling, StatusPassed, StatusFailed:
		return true
	}
	return false
}

// Submission is one recorded attempt at an item by a user. Rows are
// append-only: the status is final at insert time and never changes.
type Submission struct {
	ID            string           `json:"id"`
	UserID        string           `json:"user_id"`
	ItemRef       ItemRef          `json:"item"`
	Code          string           `json:"code"`
	LanguageLabel string           `json:"language"`
	Status        SubmissionStatus `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`

	// Joined from the catalog item for display; absent when the item no
	// longer resolves.
	ItemTitle      *string `json:"item_title,omitempty"`
	ItemDifficulty *string `json:"item_difficulty,omitempty"`
}

// SolvedItem marks that a user has earned the reward for an item. The
// (user, kind, id) triple is unique in the store, which makes claiming a
// first pass atomic: of two racing passing submissions, exactly one insert
// succeeds.
type SolvedItem struct {
	UserID       string    `json:"user_id"`
	ItemKind     ItemKind  `json:"item_kind"`
	ItemID       string    `json:"item_id"`
	SubmissionID string    `json:"submission_id"`
	CoinsAwarded int       `json:"coins_awarded"`
	CreatedAt    time.Time `json:"created_at"`
}
