package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/classifier"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/models"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/pdf"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/resume"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/skills"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

//go:embed templates/index.html
var templateFS embed.FS

// ReportGenerator turns a match into a printable document.
type ReportGenerator interface {
	Generate(report pdf.MatchReport) ([]byte, error)
}

type Handler struct {
	classifier classifier.Client
	reports    ReportGenerator
	timeout    time.Duration
	now        func() time.Time
}

// NewHandler builds the handler. reports may be nil, in which case the PDF
// endpoint answers 501.
func NewHandler(c classifier.Client, reports ReportGenerator, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Handler{classifier: c, reports: reports, timeout: timeout, now: time.Now}
}

// NewRouter wires the form, the JSON API and the health check.
func NewRouter(h *Handler) (*gin.Engine, error) {
	tmpl, err := template.New("index.html").Funcs(template.FuncMap{
		"percent": func(v float64) string { return fmt.Sprintf("%.0f%%", v*100) },
	}).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.SetHTMLTemplate(tmpl)
	r.MaxMultipartMemory = resume.MaxUploadSize

	r.GET("/", h.index)
	r.POST("/", h.submit)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := r.Group("/api")
	api.POST("/classify", h.apiClassify)
	api.POST("/match", h.apiMatch)
	api.POST("/match/report", h.apiMatchReport)
	return r, nil
}

// page is the data behind index.html.
type page struct {
	Error     string
	Threshold float64

	ShowJobResults bool
	JobDescription string
	Skills         []models.SkillPrediction

	ShowResumeResults bool
	ResumeText        string
	JobText           string
	Match             skills.MatchResult
}

func (h *Handler) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", page{Threshold: classifier.DefaultThreshold})
}

func (h *Handler) submit(c *gin.Context) {
	threshold, err := parseThreshold(c.PostForm("threshold"))
	if err != nil {
		c.HTML(http.StatusBadRequest, "index.html", page{Error: err.Error(), Threshold: classifier.DefaultThreshold})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	switch c.PostForm("action") {
	case "analyze_job":
		p := page{Threshold: threshold, JobDescription: c.PostForm("job_description")}
		if strings.TrimSpace(p.JobDescription) == "" {
			p.Error = "Please enter a job description."
			c.HTML(http.StatusBadRequest, "index.html", p)
			return
		}
		preds, err := h.classifier.Classify(ctx, p.JobDescription, threshold)
		if err != nil {
			p.Error = "Could not analyze the job description: " + err.Error()
			c.HTML(statusFor(err), "index.html", p)
			return
		}
		p.ShowJobResults = true
		p.Skills = preds
		c.HTML(http.StatusOK, "index.html", p)

	case "match_resume":
		p := page{Threshold: threshold, ResumeText: c.PostForm("resume_text"), JobText: c.PostForm("job_text")}
		if text, ok, err := uploadedResume(c); err != nil {
			p.Error = err.Error()
			c.HTML(http.StatusBadRequest, "index.html", p)
			return
		} else if ok {
			p.ResumeText = text
		}
		if strings.TrimSpace(p.ResumeText) == "" || strings.TrimSpace(p.JobText) == "" {
			p.Error = "Please provide both a resume and a job description."
			c.HTML(http.StatusBadRequest, "index.html", p)
			return
		}
		jobSkills, resumeSkills, err := h.classifyPair(ctx, p.JobText, p.ResumeText, threshold)
		if err != nil {
			p.Error = "Could not compare the resume: " + err.Error()
			c.HTML(statusFor(err), "index.html", p)
			return
		}
		p.ShowResumeResults = true
		p.Match = skills.Match(jobSkills, resumeSkills)
		c.HTML(http.StatusOK, "index.html", p)

	default:
		c.HTML(http.StatusBadRequest, "index.html", page{Error: "Unknown action.", Threshold: threshold})
	}
}

// classifyPair classifies the job and the resume concurrently.
func (h *Handler) classifyPair(ctx context.Context, jobText, resumeText string, threshold float64) (job, cv []models.SkillPrediction, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		job, err = h.classifier.Classify(gctx, jobText, threshold)
		if err != nil {
			return fmt.Errorf("job description: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		cv, err = h.classifier.Classify(gctx, resumeText, threshold)
		if err != nil {
			return fmt.Errorf("resume: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return job, cv, nil
}

type classifyRequest struct {
	Text      string   `json:"text" binding:"required"`
	Threshold *float64 `json:"threshold"`
}

type matchRequest struct {
	ResumeText string   `json:"resume_text" binding:"required"`
	JobText    string   `json:"job_text" binding:"required"`
	Threshold  *float64 `json:"threshold"`
}

type matchResponse struct {
	skills.MatchResult
	JobSkills    []models.SkillPrediction `json:"job_skills"`
	ResumeSkills []models.SkillPrediction `json:"resume_skills"`
	Threshold    float64                  `json:"threshold"`
}

func (h *Handler) apiClassify(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	threshold := thresholdOrDefault(req.Threshold)

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()
	preds, err := h.classifier.Classify(ctx, req.Text, threshold)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"skills": preds, "total_skills": len(preds), "threshold": threshold})
}

func (h *Handler) apiMatch(c *gin.Context) {
	resp, ok := h.match(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) apiMatchReport(c *gin.Context) {
	if h.reports == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "report generation is disabled"})
		return
	}
	resp, ok := h.match(c)
	if !ok {
		return
	}
	data, err := h.reports.Generate(pdf.MatchReport{
		GeneratedAt:  h.now(),
		Threshold:    resp.Threshold,
		JobSkills:    resp.JobSkills,
		ResumeSkills: resp.ResumeSkills,
		Result:       resp.MatchResult,
	})
	if err != nil {
		log.Printf("❌ Report generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="skill-match.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *Handler) match(c *gin.Context) (matchResponse, bool) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return matchResponse{}, false
	}
	threshold := thresholdOrDefault(req.Threshold)

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()
	jobSkills, resumeSkills, err := h.classifyPair(ctx, req.JobText, req.ResumeText, threshold)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return matchResponse{}, false
	}
	return matchResponse{
		MatchResult:  skills.Match(jobSkills, resumeSkills),
		JobSkills:    jobSkills,
		ResumeSkills: resumeSkills,
		Threshold:    threshold,
	}, true
}

func uploadedResume(c *gin.Context) (string, bool, error) {
	fh, err := c.FormFile("resume_file")
	if err != nil || fh.Size == 0 {
		return "", false, nil
	}
	f, err := fh.Open()
	if err != nil {
		return "", false, fmt.Errorf("could not read uploaded resume: %w", err)
	}
	defer f.Close()

	text, err := resume.ParseUpload(fh.Filename, f)
	if err != nil {
		return "", false, fmt.Errorf("could not read uploaded resume: %w", err)
	}
	return text, true, nil
}

func parseThreshold(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return classifier.DefaultThreshold, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("threshold must be a number, got %q", raw)
	}
	if err := classifier.ValidateThreshold(v); err != nil {
		return 0, err
	}
	return v, nil
}

func thresholdOrDefault(v *float64) float64 {
	if v == nil {
		return classifier.DefaultThreshold
	}
	return *v
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, classifier.ErrInvalidThreshold):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
