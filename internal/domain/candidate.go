package domain

// Review flag labels. A flag marks a row for human verification; it never
// removes the row from the output.
const (
	FlagNoEducation   = "no education"
	FlagNoEduYear     = "no edu year"
	FlagNoBachelors   = "No bachelor's - review"
	FlagMultiBachelor = "multi bachelor - review"
	FlagUnparseable   = "unparseable"
)

// Candidate is one row of output. GradYear and YearsExperience use 0 for
// "absent"; the CSV sink writes absent numerics as empty cells.
type Candidate struct {
	FullName   string `json:"full_name"`
	Company    string `json:"current_company"`
	Title      string `json:"current_title"`
	ProfileURL string `json:"linkedin_public_url"`
	Location   string `json:"location"`
	Review     string `json:"review"`

	GradYear        int `json:"bachelors_grad_year,omitempty"`
	YearsExperience int `json:"years_experience,omitempty"`
}

// AppendReview concatenates another review flag onto an existing one.
// Education-derived flags come first, title warnings after.
func (c *Candidate) AppendReview(flag string) {
	if flag == "" {
		return
	}
	if c.Review == "" {
		c.Review = flag
		return
	}
	c.Review += "; " + flag
}
