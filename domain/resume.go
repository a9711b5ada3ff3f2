package domain

import "encoding/json"

// NormalizedResume is the canonical resume shape produced by the parser gateway
// regardless of the upstream schema. Absent fields are empty strings or empty
// slices, never nil.
type NormalizedResume struct {
	PersonalInfo         PersonalInfo      `json:"personalInfo"`
	Summary              string            `json:"summary"`
	Experience           []ExperienceEntry `json:"experience"`
	Education            []EducationEntry  `json:"education"`
	Skills               Skills            `json:"skills"`
	Certifications       []string          `json:"certifications"`
	Languages            []string          `json:"languages"`
	TotalExperienceYears float64           `json:"totalExperienceYears"`
	RawUpstreamPayload   json.RawMessage   `json:"rawUpstreamPayload"`
}

type PersonalInfo struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	LinkedIn  string `json:"linkedin"`
	Portfolio string `json:"portfolio"`
}

type ExperienceEntry struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
}

type EducationEntry struct {
	Degree         string `json:"degree"`
	Institution    string `json:"institution"`
	Location       string `json:"location"`
	GraduationDate string `json:"graduationDate"`
	GPA            string `json:"gpa"`
}

type Skills struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
	All       []string `json:"all"`
}

// EmptyResume returns a resume with every collection initialised.
func EmptyResume() NormalizedResume {
	return NormalizedResume{
		Experience:         []ExperienceEntry{},
		Education:          []EducationEntry{},
		Skills:             Skills{Technical: []string{}, Soft: []string{}, All: []string{}},
		Certifications:     []string{},
		Languages:          []string{},
		RawUpstreamPayload: json.RawMessage("{}"),
	}
}
