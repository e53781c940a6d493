package indeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchURL(t *testing.T) {
	site := NewSite("")
	facets := Facets(DefaultSearchTerm, Locations[:2])

	assert.Equal(t, "https://www.indeed.com/jobs?q=Computer+Vision+Engineer&l=United+States", site.SearchURL(facets[0]))
	assert.Equal(t, "https://www.indeed.com/jobs?q=Computer+Vision+Engineer&l=New+York%2C+NY", site.SearchURL(facets[1]))
}

func TestSearchURLCustomBase(t *testing.T) {
	site := NewSite("http://127.0.0.1:8080/")
	facet := Facets("go", []Location{{"Remote", "Remote"}})[0]
	assert.Equal(t, "http://127.0.0.1:8080/jobs?q=go&l=Remote", site.SearchURL(facet))
}

func TestFacetsKeepOrder(t *testing.T) {
	facets := Facets("cv", Locations)
	assert.Len(t, facets, 50)
	assert.Equal(t, "United States", facets[0].LocationName)
	assert.Equal(t, "New Zealand", facets[49].LocationName)
	assert.Equal(t, "cv|Texas", facets[3].Key())
}

func TestDetailReadyCoversTitleAndDescription(t *testing.T) {
	site := NewSite("")
	assert.Contains(t, site.DetailReady, "h1")
	assert.Contains(t, site.DetailReady, "#jobDescriptionText")
	assert.Len(t, site.Title, 3, "building DetailReady must not alias the title chain")
}
