package pdf

import (
	"testing"
	"time"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/models"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/skills"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHTML(t *testing.T) {
	g, err := NewGenerator()
	require.NoError(t, err)

	job := []models.SkillPrediction{{Skill: "Python", Confidence: 0.97}, {Skill: "C++ & CUDA", Confidence: 0.6}}
	cv := []models.SkillPrediction{{Skill: "python", Confidence: 0.9}}
	html, err := g.RenderHTML(MatchReport{
		GeneratedAt:  time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
		Threshold:    0.5,
		JobSkills:    job,
		ResumeSkills: cv,
		Result:       skills.Match(job, cv),
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Generated 2024-05-01 09:30")
	assert.Contains(t, html, "50.0%")
	assert.Contains(t, html, "<td>Python</td><td>97%</td>")
	assert.Contains(t, html, "&amp; CUDA", "skill names are escaped")
}
