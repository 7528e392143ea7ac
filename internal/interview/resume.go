package interview

// Resume is the structured résumé record a session is created from. It is
// produced by the extraction collaborator before the session starts and is
// treated as read-only for the session's lifetime.
type Resume struct {
	Name       string       `json:"name,omitempty"`
	Education  []Education  `json:"education,omitempty"`
	Skills     []string     `json:"skills,omitempty"`
	Experience []Experience `json:"experience,omitempty"`
	Projects   []Project    `json:"projects,omitempty"`
}

type Education struct {
	Degree      string `json:"degree,omitempty"`
	Institution string `json:"institution,omitempty"`
	Year        string `json:"year,omitempty"`
}

type Experience struct {
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

type Project struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Tech        []string `json:"tech,omitempty"`
}
