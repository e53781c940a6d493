package indeed

import (
	"strings"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/models"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/scraper"
)

const (
	BaseURL = "https://www.indeed.com"

	DefaultSearchTerm = "Computer Vision Engineer"

	resultItem       = `[data-testid="slider_item"]`
	resultLink       = "h2.jobTitle a"
	nextPage         = `a[aria-label="Next"]`
	attributeSnippet = "[data-testid='attribute_snippet_testid']"
)

// Location is a named value for the l= query parameter. Param is already
// URL-encoded.
type Location struct {
	Name  string `yaml:"name"`
	Param string `yaml:"param"`
}

// Locations is the built-in crawl order.
var Locations = []Location{
	{"United States", "United+States"},
	{"New York", "New+York%2C+NY"},
	{"California", "California"},
	{"Texas", "Texas"},
	{"Florida", "Florida"},
	{"Remote", "Remote"},
	{"Canada", "Canada"},
	{"United Kingdom", "United+Kingdom"},
	{"Germany", "Germany"},
	{"Australia", "Australia"},
	{"India", "India"},
	{"France", "France"},
	{"Netherlands", "Netherlands"},
	{"Sweden", "Sweden"},
	{"Singapore", "Singapore"},
	{"Switzerland", "Switzerland"},
	{"Japan", "Japan"},
	{"South Korea", "South+Korea"},
	{"Brazil", "Brazil"},
	{"Mexico", "Mexico"},
	{"Illinois", "Illinois"},
	{"Washington", "Washington"},
	{"Massachusetts", "Massachusetts"},
	{"North Carolina", "North+Carolina"},
	{"Georgia", "Georgia"},
	{"Colorado", "Colorado"},
	{"Pennsylvania", "Pennsylvania"},
	{"Virginia", "Virginia"},
	{"Ohio", "Ohio"},
	{"Michigan", "Michigan"},
	{"Arizona", "Arizona"},
	{"Tennessee", "Tennessee"},
	{"Minnesota", "Minnesota"},
	{"Utah", "Utah"},
	{"Oregon", "Oregon"},
	{"Ireland", "Ireland"},
	{"Spain", "Spain"},
	{"Italy", "Italy"},
	{"Poland", "Poland"},
	{"United Arab Emirates", "United+Arab+Emirates"},
	{"China", "China"},
	{"Hong Kong", "Hong+Kong"},
	{"Taiwan", "Taiwan"},
	{"Portugal", "Portugal"},
	{"Belgium", "Belgium"},
	{"Austria", "Austria"},
	{"Denmark", "Denmark"},
	{"Norway", "Norway"},
	{"Finland", "Finland"},
	{"New Zealand", "New+Zealand"},
}

// Facets pairs term with every location, preserving order.
func Facets(term string, locations []Location) []models.SearchFacet {
	facets := make([]models.SearchFacet, 0, len(locations))
	for _, loc := range locations {
		facets = append(facets, models.SearchFacet{
			SearchTerm:    term,
			LocationName:  loc.Name,
			LocationParam: loc.Param,
		})
	}
	return facets
}

// NewSite returns the Indeed selectors rooted at baseURL.
func NewSite(baseURL string) scraper.Site {
	if baseURL == "" {
		baseURL = BaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	title := scraper.SelectorChain{
		"h1.jobsearch-JobInfoHeader-title",
		"h1",
		".jobsearch-JobInfoHeader-title-container h1",
	}
	description := scraper.SelectorChain{
		"#jobDescriptionText",
		".jobsearch-JobComponent-description",
		"[class*='jobDescription']",
		".description",
	}

	return scraper.Site{
		Name: "Indeed",
		SearchURL: func(facet models.SearchFacet) string {
			return baseURL + "/jobs?q=" + strings.ReplaceAll(facet.SearchTerm, " ", "+") + "&l=" + facet.LocationParam
		},

		ResultItem: resultItem,
		ResultLink: resultLink,
		NextPage:   nextPage,

		ResultsReady: scraper.SelectorChain{resultItem},
		DetailReady:  append(append(scraper.SelectorChain{}, title...), description...),

		Title: title,
		Company: scraper.SelectorChain{
			"[data-company-name='true']",
			".jobsearch-CompanyInfoContainer",
			".jobsearch-InlineCompanyRating",
		},
		Location: scraper.SelectorChain{
			"[data-testid='inlineHeader-companyLocation']",
			".jobsearch-JobInfoHeader-subtitle div",
			".jobsearch-JobMetadataHeader-item",
		},
		Description: description,
		JobType: scraper.SelectorChain{
			"[data-testid='jobsearch-OtherJobDetailsContainer'] [data-testid$='-tile'] li",
			"#salaryInfoAndJobType span:last-child",
		},

		AttributeSnippet: attributeSnippet,
		SalaryMarkers:    []string{"salary", "$", "€", "£", "per year", "per hour"},
		JobTypeMarkers:   []string{"full-time", "part-time", "contract", "temporary", "internship", "permanent", "freelance"},
	}
}
