package models

import (
	"fmt"
	"strings"
	"time"
)

// ScrapedAtLayout is the timestamp format of the scraped_at column.
const ScrapedAtLayout = "2006-01-02 15:04:05"

// MultipleLocations labels a link that was observed under more than one facet.
const MultipleLocations = "Multiple"

var (
	LinkHeader   = []string{"job_url", "search_term", "location"}
	RecordHeader = []string{"job_url", "title", "company", "location", "salary", "job_type", "job_description", "scraped_at"}
)

// SearchFacet is one (search term, location) pair the link harvester paginates through.
type SearchFacet struct {
	SearchTerm    string `json:"search_term"`
	LocationName  string `json:"location_name"`
	LocationParam string `json:"location_param"`
}

// Key identifies the facet in the completed-facets sidecar.
func (f SearchFacet) Key() string {
	return f.SearchTerm + "|" + f.LocationName
}

type JobLink struct {
	URL        string `json:"job_url"`
	SearchTerm string `json:"search_term"`
	Location   string `json:"location"`
}

func (l JobLink) CSVRow() []string {
	return []string{l.URL, l.SearchTerm, l.Location}
}

// JobRecord holds the fields extracted from one posting detail page.
// Any field except JobURL may be empty when the page did not expose it.
type JobRecord struct {
	JobURL         string    `json:"job_url"`
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	Location       string    `json:"location"`
	Salary         string    `json:"salary"`
	JobType        string    `json:"job_type"`
	JobDescription string    `json:"job_description"`
	ScrapedAt      time.Time `json:"scraped_at"`
}

func (r JobRecord) CSVRow() []string {
	return []string{
		r.JobURL,
		r.Title,
		r.Company,
		r.Location,
		r.Salary,
		r.JobType,
		r.JobDescription,
		r.ScrapedAt.Format(ScrapedAtLayout),
	}
}

// SkillPrediction is one classified skill with its model confidence in [0,1].
type SkillPrediction struct {
	Skill      string  `json:"skill"`
	Confidence float64 `json:"confidence"`
}

// Slug turns a search term into the prefix used for link file names.
func Slug(term string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(term)), " ", "_")
}

// ParseJobRecord reads a row written by JobRecord.CSVRow.
func ParseJobRecord(row []string) (JobRecord, error) {
	if len(row) < len(RecordHeader) {
		return JobRecord{}, fmt.Errorf("record has %d columns, want %d", len(row), len(RecordHeader))
	}
	scrapedAt, err := time.ParseInLocation(ScrapedAtLayout, row[7], time.Local)
	if err != nil {
		return JobRecord{}, fmt.Errorf("bad scraped_at %q: %w", row[7], err)
	}
	return JobRecord{
		JobURL:         row[0],
		Title:          row[1],
		Company:        row[2],
		Location:       row[3],
		Salary:         row[4],
		JobType:        row[5],
		JobDescription: row[6],
		ScrapedAt:      scrapedAt,
	}, nil
}
