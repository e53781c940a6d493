package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJobRecordCSVRow(t *testing.T) {
	rec := JobRecord{
		JobURL:    "https://www.indeed.com/viewjob?jk=1",
		Title:     "Computer Vision Engineer",
		Company:   "Acme",
		ScrapedAt: time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local),
	}

	row := rec.CSVRow()
	assert.Len(t, row, len(RecordHeader))
	assert.Equal(t, "https://www.indeed.com/viewjob?jk=1", row[0])
	assert.Equal(t, "", row[4], "missing salary stays empty")
	assert.Equal(t, "2024-03-09 14:05:07", row[7])
}

func TestSlug(t *testing.T) {
	tests := []struct {
		term string
		want string
	}{
		{"Computer Vision Engineer", "computer_vision_engineer"},
		{"  Mechatronics Engineer ", "mechatronics_engineer"},
		{"go", "go"},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.term))
		})
	}
}

func TestParseJobRecord(t *testing.T) {
	rec := JobRecord{
		JobURL:         "https://a",
		Title:          "T",
		JobDescription: "line one\nline two",
		ScrapedAt:      time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local),
	}
	got, err := ParseJobRecord(rec.CSVRow())
	assert.NoError(t, err)
	assert.True(t, rec.ScrapedAt.Equal(got.ScrapedAt))
	assert.Equal(t, rec.JobDescription, got.JobDescription)

	_, err = ParseJobRecord([]string{"https://a"})
	assert.Error(t, err)

	row := rec.CSVRow()
	row[7] = "yesterday"
	_, err = ParseJobRecord(row)
	assert.Error(t, err)
}
