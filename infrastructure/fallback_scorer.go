package infrastructure

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"jobboard/domain"
)

// FallbackMarker is carried by every verdict the keyword scorer produces.
const FallbackMarker = "[Automated scoring] AI scoring was unavailable; this result comes from keyword matching. Manual review is advised."

// FallbackScorer scores by overlap of a fixed skill vocabulary between the
// resume and the job description. It is deterministic and never fails.
type FallbackScorer struct {
	vocabulary []string
	salary     domain.SalaryRange
}

func NewFallbackScorer(vocabulary []string, salary domain.SalaryRange) *FallbackScorer {
	if len(vocabulary) == 0 {
		vocabulary = DefaultSkillVocabulary
	}
	return &FallbackScorer{vocabulary: vocabulary, salary: salary}
}

func (f *FallbackScorer) Score(resume domain.NormalizedResume, jobDescription string) domain.Verdict {
	resume.RawUpstreamPayload = nil
	serialized, _ := json.Marshal(resume)
	resumeText := strings.ToLower(string(serialized))

	jobSkills := matchSkills(f.vocabulary, plainText(jobDescription))
	strong := []string{}
	missing := []string{}
	for _, skill := range jobSkills {
		if containsSkill(resumeText, strings.ToLower(skill)) {
			strong = append(strong, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	score := clampInt(int(math.Round(float64(len(strong))/float64(max(len(jobSkills), 1))*100)), 0, 100)

	highlights := []string{FallbackMarker}
	if len(strong) > 0 {
		highlights = append(highlights, "Matching skills: "+strings.Join(strong, ", "))
	}
	concerns := []string{FallbackMarker}
	if len(missing) > 0 {
		concerns = append(concerns, "Skills not found in resume: "+strings.Join(missing, ", "))
	}

	return domain.Verdict{
		MatchScore:           score,
		ShortlistProbability: float64(score) / 100,
		SalaryRange:          f.salary,
		MissingSkills:        missing,
		StrongSkills:         strong,
		Recommendation: fmt.Sprintf("%s Matched %d of %d skills mentioned in the job description.",
			FallbackMarker, len(strong), len(jobSkills)),
		KeyHighlights:  highlights,
		AreasOfConcern: concerns,
		ScoredBy:       domain.ScoredByFallback,
	}
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
