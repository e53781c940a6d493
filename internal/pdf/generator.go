package pdf

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/models"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/skills"

	"github.com/playwright-community/playwright-go"
)

//go:embed templates/report.html
var templateFS embed.FS

// MatchReport is everything printed on a resume/job comparison report.
type MatchReport struct {
	GeneratedAt  time.Time
	Threshold    float64
	JobSkills    []models.SkillPrediction
	ResumeSkills []models.SkillPrediction
	Result       skills.MatchResult
}

// Generator renders match reports to PDF through a headless Chromium.
type Generator struct {
	tmpl *template.Template
}

// NewGenerator parses the embedded report template.
func NewGenerator() (*Generator, error) {
	funcMap := template.FuncMap{
		"percent": func(v float64) string { return fmt.Sprintf("%.0f%%", v*100) },
	}
	tmpl, err := template.New("report.html").Funcs(funcMap).ParseFS(templateFS, "templates/report.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &Generator{tmpl: tmpl}, nil
}

// RenderHTML executes the report template.
func (g *Generator) RenderHTML(report MatchReport) (string, error) {
	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, report); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// Generate renders the report as HTML and prints it to an A4 PDF.
func (g *Generator) Generate(report MatchReport) ([]byte, error) {
	htmlContent, err := g.RenderHTML(report)
	if err != nil {
		return nil, err
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("could not launch chromium browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not create new page: %w", err)
	}
	defer page.Close()

	if err := page.SetContent(htmlContent, playwright.PageSetContentOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	}); err != nil {
		return nil, fmt.Errorf("could not set page content: %w", err)
	}

	pdfBytes, err := page.PDF(playwright.PagePdfOptions{
		Format:          playwright.String("A4"),
		PrintBackground: playwright.Bool(true),
		Margin: &playwright.Margin{
			Top:    playwright.String("16mm"),
			Bottom: playwright.String("16mm"),
			Left:   playwright.String("14mm"),
			Right:  playwright.String("14mm"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not generate PDF: %w", err)
	}

	return pdfBytes, nil
}
