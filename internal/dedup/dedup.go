package dedup

import (
	"log"
	"strings"
	"sync"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/models"
)

type linkEntry struct {
	searchTerm string
	facets     []string
}

// LinkSet is the run-wide set of harvested job links, keyed by URL and kept
// in insertion order. It remembers every facet a URL was observed under.
type LinkSet struct {
	mu      sync.Mutex
	order   []string
	entries map[string]*linkEntry
}

func NewLinkSet() *LinkSet {
	return &LinkSet{entries: make(map[string]*linkEntry)}
}

// Add inserts link if its URL is new and reports whether it was. A repeated
// URL only records the extra facet observation.
func (s *LinkSet) Add(link models.JobLink) bool {
	url := strings.TrimSpace(link.URL)
	if url == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, exists := s.entries[url]; exists {
		e.observe(link.Location)
		return false
	}
	e := &linkEntry{searchTerm: link.SearchTerm}
	e.observe(link.Location)
	s.entries[url] = e
	s.order = append(s.order, url)
	return true
}

func (e *linkEntry) observe(location string) {
	for _, f := range e.facets {
		if f == location {
			return
		}
	}
	e.facets = append(e.facets, location)
}

func (s *LinkSet) Contains(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.entries[strings.TrimSpace(url)]
	return exists
}

func (s *LinkSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Links returns the set in insertion order. The location is the observing
// facet when there was exactly one, otherwise "Multiple".
func (s *LinkSet) Links() []models.JobLink {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.JobLink, 0, len(s.order))
	for _, url := range s.order {
		e := s.entries[url]
		location := models.MultipleLocations
		if len(e.facets) == 1 {
			location = e.facets[0]
		}
		out = append(out, models.JobLink{URL: url, SearchTerm: e.searchTerm, Location: location})
	}
	return out
}

// Rows returns Links as CSV rows.
func (s *LinkSet) Rows() [][]string {
	links := s.Links()
	rows := make([][]string, len(links))
	for i, l := range links {
		rows[i] = l.CSVRow()
	}
	return rows
}

// LoadRows merges persisted link rows (job_url, search_term, location).
// The stored location becomes the link's first observed facet.
func (s *LinkSet) LoadRows(rows [][]string) int {
	loaded := 0
	for _, row := range rows {
		if len(row) < 3 || !strings.HasPrefix(strings.TrimSpace(row[0]), "http") {
			continue
		}
		if s.Add(models.JobLink{URL: row[0], SearchTerm: row[1], Location: row[2]}) {
			loaded++
		}
	}
	log.Printf("📋 Loaded %d previously harvested links", loaded)
	return loaded
}
