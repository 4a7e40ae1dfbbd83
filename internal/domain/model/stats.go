package model

// UserStats is the solved breakdown for a user's dashboard. Counts are over
// unique solved items, not submissions.
type UserStats struct {
	Total  int `json:"total"`
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

// CompanyStats backs the company dashboard. Engagement is the integer
// percentage of users who passed the company's challenges among those who
// attempted them at all.
type CompanyStats struct {
	TotalCandidates int `json:"totalCandidates"`
	TopPerformers   int `json:"topPerformers"`
	Engagement      int `json:"-"`
}
