package skills

import (
	"testing"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/models"

	"github.com/stretchr/testify/assert"
)

func preds(names ...string) []models.SkillPrediction {
	out := make([]models.SkillPrediction, len(names))
	for i, n := range names {
		out[i] = models.SkillPrediction{Skill: n, Confidence: 0.9}
	}
	return out
}

func skillNames(ps []models.SkillPrediction) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Skill
	}
	return out
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		job      []models.SkillPrediction
		resume   []models.SkillPrediction
		matching []string
		missing  []string
		percent  float64
	}{
		{
			name:     "partial overlap keeps job order",
			job:      preds("Python", "Docker", "SQL"),
			resume:   preds("sql", "python", "Excel"),
			matching: []string{"Python", "SQL"},
			missing:  []string{"Docker"},
			percent:  66.7,
		},
		{
			name:     "full coverage",
			job:      preds("Git"),
			resume:   preds("GIT"),
			matching: []string{"Git"},
			missing:  []string{},
			percent:  100,
		},
		{
			name:     "empty job",
			job:      nil,
			resume:   preds("Python"),
			matching: []string{},
			missing:  []string{},
			percent:  0,
		},
		{
			name:     "empty resume",
			job:      preds("Python", "Linux"),
			resume:   nil,
			matching: []string{},
			missing:  []string{"Python", "Linux"},
			percent:  0,
		},
		{
			name:     "accents are ignored",
			job:      preds("Résumé Writing"),
			resume:   preds("resume writing"),
			matching: []string{"Résumé Writing"},
			missing:  []string{},
			percent:  100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(tt.job, tt.resume)
			assert.Equal(t, tt.matching, skillNames(got.Matching))
			assert.Equal(t, tt.missing, skillNames(got.Missing))
			assert.Equal(t, tt.percent, got.Percentage)
		})
	}
}
