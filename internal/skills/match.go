package skills

import (
	"math"
	"strings"
	"unicode"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MatchResult compares the skills a job asks for with the skills a resume shows.
type MatchResult struct {
	Matching   []models.SkillPrediction `json:"matching_skills"`
	Missing    []models.SkillPrediction `json:"missing_skills"`
	Percentage float64                  `json:"match_percentage"`
}

// Match splits the job skills into those also found in the resume and those
// that are not. Both lists keep the job's order. Percentage is the share of
// distinct job skills covered, rounded to one decimal.
func Match(job, resume []models.SkillPrediction) MatchResult {
	have := make(map[string]struct{}, len(resume))
	for _, p := range resume {
		have[normalize(p.Skill)] = struct{}{}
	}

	res := MatchResult{
		Matching: []models.SkillPrediction{},
		Missing:  []models.SkillPrediction{},
	}
	wanted := make(map[string]struct{}, len(job))
	covered := 0
	for _, p := range job {
		key := normalize(p.Skill)
		_, found := have[key]
		if found {
			res.Matching = append(res.Matching, p)
		} else {
			res.Missing = append(res.Missing, p)
		}
		if _, seen := wanted[key]; seen {
			continue
		}
		wanted[key] = struct{}{}
		if found {
			covered++
		}
	}

	if len(wanted) > 0 {
		res.Percentage = math.Round(float64(covered)/float64(len(wanted))*1000) / 10
	}
	return res
}

var folder = cases.Fold()

func normalize(skill string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, strings.TrimSpace(skill))
	return folder.String(result)
}
