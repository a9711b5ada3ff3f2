package infrastructure

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"jobboard/domain"
)

var errNotAnObject = errors.New("parser payload is not a JSON object")

// Parser services disagree on key names. Each list is checked in order and the
// first non-empty value wins.
var (
	nameKeys       = []string{"name", "full_name", "fullName", "candidate_name", "candidateName"}
	emailKeys      = []string{"email", "email_address", "emailAddress", "emails"}
	phoneKeys      = []string{"phone", "phone_number", "phoneNumber", "mobile", "phones"}
	locationKeys   = []string{"location", "address", "city"}
	linkedInKeys   = []string{"linkedin", "linkedin_url", "linkedinUrl", "linkedIn"}
	portfolioKeys  = []string{"portfolio", "portfolio_url", "website", "github", "url"}
	personalKeys   = []string{"personal_info", "personalInfo", "personal", "contact", "contact_info", "contactInfo"}
	summaryKeys    = []string{"summary", "objective", "profile", "about", "professional_summary"}
	experienceKeys = []string{"experience", "work_experience", "workExperience", "employment", "employment_history", "experiences", "work_history"}
	educationKeys  = []string{"education", "educations", "academic_background", "qualifications"}
	certKeys       = []string{"certifications", "certificates", "certs"}
	languageKeys   = []string{"languages", "spoken_languages"}
	yearsKeys      = []string{"total_experience_years", "totalExperienceYears", "years_of_experience", "yearsOfExperience", "experience_years", "total_experience"}
	wrapperKeys    = []string{"data", "result", "resume", "parsed", "parsed_resume"}
)

var leadingNumber = regexp.MustCompile(`\d+(\.\d+)?`)

// NormalizeResume maps a loosely typed parser payload onto the canonical
// resume shape. raw is kept verbatim in RawUpstreamPayload.
func NormalizeResume(raw []byte) (domain.NormalizedResume, error) {
	out := domain.EmptyResume()

	trimmed := bytes.TrimSpace(raw)
	var doc map[string]any
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return out, fmt.Errorf("decode parser payload: %w", err)
	}
	if doc == nil {
		return out, errNotAnObject
	}
	out.RawUpstreamPayload = append(json.RawMessage(nil), trimmed...)

	doc = unwrap(doc)

	personal := doc
	for _, k := range personalKeys {
		if m, ok := doc[k].(map[string]any); ok {
			personal = merge(doc, m)
			break
		}
	}
	out.PersonalInfo = domain.PersonalInfo{
		Name:      firstText(personal, nameKeys...),
		Email:     firstText(personal, emailKeys...),
		Phone:     firstText(personal, phoneKeys...),
		Location:  location(pick(personal, locationKeys...)),
		LinkedIn:  firstText(personal, linkedInKeys...),
		Portfolio: firstText(personal, portfolioKeys...),
	}

	out.Summary = firstText(doc, summaryKeys...)

	for _, m := range objects(pick(doc, experienceKeys...)) {
		out.Experience = append(out.Experience, experienceEntry(m))
	}
	for _, m := range objects(pick(doc, educationKeys...)) {
		out.Education = append(out.Education, educationEntry(m))
	}

	out.Skills = skills(doc)
	out.Certifications = strs(pick(doc, certKeys...))
	out.Languages = strs(pick(doc, languageKeys...))
	out.TotalExperienceYears = number(pick(doc, yearsKeys...))

	return out, nil
}

// unwrap descends through envelope keys such as {"data": {...}} until it
// reaches a document with resume fields.
func unwrap(doc map[string]any) map[string]any {
	for depth := 0; depth < 3; depth++ {
		if looksLikeResume(doc) {
			return doc
		}
		next, ok := map[string]any(nil), false
		for _, k := range wrapperKeys {
			if next, ok = doc[k].(map[string]any); ok {
				break
			}
		}
		if !ok {
			return doc
		}
		doc = next
	}
	return doc
}

func looksLikeResume(doc map[string]any) bool {
	groups := [][]string{nameKeys, emailKeys, personalKeys, experienceKeys, educationKeys, {"skills"}}
	for _, g := range groups {
		if pick(doc, g...) != nil {
			return true
		}
	}
	return false
}

// merge overlays nested on base without mutating either.
func merge(base, nested map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(nested))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range nested {
		if s, ok := v.(string); v == nil || ok && strings.TrimSpace(s) == "" {
			continue
		}
		out[k] = v
	}
	return out
}

func experienceEntry(m map[string]any) domain.ExperienceEntry {
	e := domain.ExperienceEntry{
		Title:       firstText(m, "title", "job_title", "jobTitle", "position", "role", "designation"),
		Company:     firstText(m, "company", "employer", "organization", "organisation", "company_name", "companyName"),
		Location:    location(pick(m, "location", "city")),
		StartDate:   firstText(m, "start_date", "startDate", "start", "from"),
		EndDate:     firstText(m, "end_date", "endDate", "end", "to"),
		Description: joined(pick(m, "description", "responsibilities", "summary", "achievements", "highlights"), "\n"),
		Duration:    firstText(m, "duration", "period", "tenure"),
	}
	if dates, ok := m["dates"].(map[string]any); ok {
		if e.StartDate == "" {
			e.StartDate = firstText(dates, "start", "start_date", "startDate", "from")
		}
		if e.EndDate == "" {
			e.EndDate = firstText(dates, "end", "end_date", "endDate", "to")
		}
	} else if e.Duration == "" {
		e.Duration = text(m["dates"])
	}
	if e.EndDate == "" {
		if cur, ok := m["current"].(bool); ok && cur {
			e.EndDate = "Present"
		}
	}
	return e
}

func educationEntry(m map[string]any) domain.EducationEntry {
	return domain.EducationEntry{
		Degree:         firstText(m, "degree", "qualification", "title", "course", "field_of_study"),
		Institution:    firstText(m, "institution", "school", "university", "college", "institute"),
		Location:       location(pick(m, "location", "city")),
		GraduationDate: firstText(m, "graduation_date", "graduationDate", "graduation_year", "year", "end_date", "endDate"),
		GPA:            firstText(m, "gpa", "grade", "cgpa", "score"),
	}
}

func skills(doc map[string]any) domain.Skills {
	var technical, soft, all []string

	switch v := pick(doc, "skills", "skill_set", "skillset").(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			val := v[k]
			switch strings.ToLower(k) {
			case "soft", "soft_skills", "softskills", "interpersonal":
				soft = append(soft, strs(val)...)
			case "all":
				all = append(all, strs(val)...)
			default:
				technical = append(technical, strs(val)...)
			}
		}
	case nil:
	default:
		technical = append(technical, strs(v)...)
	}
	technical = append(technical, strs(pick(doc, "technical_skills", "technicalSkills", "hard_skills"))...)
	soft = append(soft, strs(pick(doc, "soft_skills", "softSkills"))...)

	technical = dedupe(technical)
	soft = dedupe(soft)
	all = dedupe(append(append(append([]string{}, technical...), soft...), all...))
	return domain.Skills{Technical: technical, Soft: soft, All: all}
}

func pick(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstText(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := text(m[k]); s != "" {
			return s
		}
	}
	return ""
}

// text renders a scalar. For arrays the first non-empty element is used.
func text(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		for _, item := range t {
			if s := text(item); s != "" {
				return s
			}
		}
	case map[string]any:
		return firstText(t, "value", "name", "address", "number", "url")
	}
	return ""
}

func joined(v any, sep string) string {
	if items, ok := v.([]any); ok {
		var parts []string
		for _, item := range items {
			if s := text(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, sep)
	}
	return text(v)
}

func location(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return text(v)
	}
	var parts []string
	for _, k := range []string{"city", "state", "region", "country"} {
		if s := text(m[k]); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return firstText(m, "address", "formatted")
	}
	return strings.Join(parts, ", ")
}

// strs turns a list, a delimited string or a list of {name: ...} objects into
// a slice of labels.
func strs(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case string:
		for _, part := range strings.FieldsFunc(t, func(r rune) bool { return r == ',' || r == ';' || r == '\n' }) {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	case []any:
		for _, item := range t {
			var s string
			if m, ok := item.(map[string]any); ok {
				s = firstText(m, "name", "skill", "title", "language", "value")
			} else {
				s = text(item)
			}
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func objects(v any) []map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return []map[string]any{t}
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

// number accepts 5, 5.5, "5" or "5+ years".
func number(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		if m := leadingNumber.FindString(t); m != "" {
			f, _ := strconv.ParseFloat(m, 64)
			return f
		}
	}
	return 0
}

// dedupe drops case-insensitive repeats, keeping first occurrence order.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
