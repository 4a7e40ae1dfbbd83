package model

import (
	"fmt"
	"strings"

	"codeconnect/internal/common"
)

type ItemKind string

const (
	ItemKindProblem   ItemKind = "problem"
	ItemKindChallenge ItemKind = "challenge"
)

// ItemRef is a tagged reference to the catalog item a submission targets:
// either a practice problem or a company challenge, never both, never
// neither.
type ItemRef struct {
	Kind ItemKind `json:"kind"`
	ID   string   `json:"id"`
}

func NewItemRef(kind ItemKind, id string) (ItemRef, error) {
	if id == "" {
		return ItemRef{}, fmt.Errorf("item id is required: %w", common.ErrValidation)
	}
	switch kind {
	case ItemKindProblem, ItemKindChallenge:
		return ItemRef{Kind: kind, ID: id}, nil
	default:
		return ItemRef{}, fmt.Errorf("unknown item kind %q: %w", kind, common.ErrValidation)
	}
}

func (r ItemRef) String() string {
	return string(r.Kind) + ":" + r.ID
}

// CatalogItem is the read-only view of a problem or challenge the scoring
// path needs: enough to name the reward notification and price the reward.
type CatalogItem struct {
	Ref        ItemRef
	Title      string
	Difficulty string
}

// NormalizeDifficulty lowercases a difficulty label so that problems
// ("Easy") and challenges ("easy") compare equal.
func NormalizeDifficulty(difficulty string) string {
	return strings.ToLower(strings.TrimSpace(difficulty))
}
