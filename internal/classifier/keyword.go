package classifier

import (
	"context"
	"regexp"
	"strings"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/models"
)

// keywordConfidence is the score given to a plain keyword hit.
const keywordConfidence = 0.8

// Keyword is a skill and the phrases that indicate it.
type Keyword struct {
	Skill   string
	Aliases []string
}

var DefaultKeywords = []Keyword{
	{Skill: "Python"},
	{Skill: "Java"},
	{Skill: "JavaScript"},
	{Skill: "TypeScript"},
	{Skill: "C++", Aliases: []string{"cpp"}},
	{Skill: "C#"},
	{Skill: "Golang"},
	{Skill: "Rust"},
	{Skill: "SQL"},
	{Skill: "NoSQL"},
	{Skill: "MATLAB"},
	{Skill: "Machine Learning"},
	{Skill: "Deep Learning"},
	{Skill: "Computer Vision"},
	{Skill: "Natural Language Processing", Aliases: []string{"NLP"}},
	{Skill: "PyTorch"},
	{Skill: "TensorFlow"},
	{Skill: "Keras"},
	{Skill: "OpenCV"},
	{Skill: "Scikit-learn", Aliases: []string{"sklearn"}},
	{Skill: "Pandas"},
	{Skill: "NumPy"},
	{Skill: "Data Analysis"},
	{Skill: "Data Visualization"},
	{Skill: "Tableau"},
	{Skill: "Power BI"},
	{Skill: "Excel"},
	{Skill: "Spark", Aliases: []string{"PySpark"}},
	{Skill: "AWS", Aliases: []string{"Amazon Web Services"}},
	{Skill: "Azure"},
	{Skill: "GCP", Aliases: []string{"Google Cloud"}},
	{Skill: "Docker"},
	{Skill: "Kubernetes", Aliases: []string{"k8s"}},
	{Skill: "CI/CD"},
	{Skill: "MLOps"},
	{Skill: "Git"},
	{Skill: "Linux"},
	{Skill: "REST APIs", Aliases: []string{"REST API", "RESTful"}},
	{Skill: "React"},
	{Skill: "Node.js", Aliases: []string{"NodeJS"}},
	{Skill: "ROS"},
	{Skill: "CUDA"},
	{Skill: "Communication"},
	{Skill: "Teamwork", Aliases: []string{"team player", "collaboration"}},
	{Skill: "Leadership"},
	{Skill: "Problem Solving", Aliases: []string{"problem-solving"}},
	{Skill: "Agile", Aliases: []string{"Scrum"}},
}

type keywordPattern struct {
	skill string
	re    *regexp.Regexp
}

// KeywordClient is an offline classifier that scores every skill whose name
// or alias appears in the text as a whole word.
type KeywordClient struct {
	patterns []keywordPattern
}

func NewKeywordClient(keywords []Keyword) *KeywordClient {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	c := &KeywordClient{}
	for _, k := range keywords {
		phrases := append([]string{k.Skill}, k.Aliases...)
		quoted := make([]string, len(phrases))
		for i, p := range phrases {
			quoted[i] = regexp.QuoteMeta(p)
		}
		// symbols such as + and # count as part of a word so "C" never matches "C++"
		re := regexp.MustCompile(`(?i)(?:^|[^\w+#])(?:` + strings.Join(quoted, "|") + `)(?:$|[^\w+#])`)
		c.patterns = append(c.patterns, keywordPattern{skill: k.Skill, re: re})
	}
	return c
}

func (c *KeywordClient) Classify(ctx context.Context, text string, threshold float64) ([]models.SkillPrediction, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	preds := []models.SkillPrediction{}
	for _, p := range c.patterns {
		if p.re.MatchString(text) {
			preds = append(preds, models.SkillPrediction{Skill: p.skill, Confidence: keywordConfidence})
		}
	}
	return FilterAndSort(preds, threshold), nil
}
