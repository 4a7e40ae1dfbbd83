package model

type ProblemDifficulty string

const (
	DifficultyEasy   ProblemDifficulty = "Easy"
	DifficultyMedium ProblemDifficulty = "Medium"
	DifficultyHard   ProblemDifficulty = "Hard"
)

// Problem is an immutable practice problem from the catalog.
type Problem struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	Difficulty  ProblemDifficulty `json:"difficulty"`
	Topics      []string          `json:"topics,omitempty"`
	Input       *string           `json:"input,omitempty"`
	Output      *string           `json:"output,omitempty"`
}
