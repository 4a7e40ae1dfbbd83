package model

import "time"

// Profile holds the public-facing attributes of an account. Coins is the
// reward balance: it only ever grows, and only through the reward path.
// Profile edits must never touch it.
type Profile struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	FullName    *string   `json:"full_name,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	Coins       int       `json:"coins"`
	Bio         *string   `json:"bio,omitempty"`
	ResumeURL   *string   `json:"resume_url,omitempty"`
	Whatsapp    *string   `json:"whatsapp,omitempty"`
	GithubURL   *string   `json:"github_url,omitempty"`
	LinkedinURL *string   `json:"linkedin_url,omitempty"`
	CompanyName *string   `json:"company_name,omitempty"`
	Website     *string   `json:"website,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Joined from users for display
	UserEmail *string `json:"user_email,omitempty"`
	UserRole  *string `json:"user_role,omitempty"`
}
