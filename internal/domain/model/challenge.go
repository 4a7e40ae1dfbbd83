package model

import "time"

// Challenge is a company-posted problem. Unlike catalog problems its
// difficulty labels are lowercase; compare via NormalizeDifficulty.
type Challenge struct {
	ID            string     `json:"id"`
	CompanyID     string     `json:"company_id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Description   string     `json:"description"`
	Difficulty    string     `json:"difficulty"`
	Topic         *string    `json:"topic,omitempty"`
	InputExample  *string    `json:"input_example,omitempty"`
	OutputExample *string    `json:"output_example,omitempty"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`

	// Resolved for display: the creator's company name, falling back to a
	// capitalized email prefix when no profile name is set.
	CompanyName *string `json:"company_name,omitempty"`
}
