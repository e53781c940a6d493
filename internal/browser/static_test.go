package browser

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPage1 = `<html><body>
<div data-testid="slider_item"><h2 class="jobTitle"><a href="/rc/clk?jk=1">One</a></h2></div>
<div data-testid="slider_item"><h2 class="jobTitle"><a href="https://www.indeed.com/viewjob?jk=2">Two</a></h2></div>
<div data-testid="slider_item"><span>sponsored, no link</span></div>
<a aria-label="Next" href="/jobs?start=10">Next</a>
</body></html>`

const resultsPage2 = `<html><body>
<div data-testid="slider_item"><h2 class="jobTitle"><a href="/rc/clk?jk=3">Three</a></h2></div>
</body></html>`

func newServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("start") == "10" {
			w.Write([]byte(resultsPage2))
			return
		}
		w.Write([]byte(resultsPage1))
	})
	mux.HandleFunc("/blocked", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestStaticPagePagination(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	page := NewStaticPage(srv.Client(), "")

	require.NoError(t, page.Navigate(ctx, srv.URL+"/jobs?q=cv"))
	require.NoError(t, page.WaitFor(ctx, []string{`[data-testid="slider_item"]`}, time.Second))

	hrefs, err := page.Attrs(`[data-testid="slider_item"]`, "h2.jobTitle a", "href")
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/rc/clk?jk=1", "https://www.indeed.com/viewjob?jk=2", ""}, hrefs)

	clicked, err := page.Click(ctx, `a[aria-label="Next"]`)
	require.NoError(t, err)
	assert.True(t, clicked)
	assert.Equal(t, srv.URL+"/jobs?start=10", page.URL())

	texts, err := page.Texts("h2.jobTitle a")
	require.NoError(t, err)
	assert.Equal(t, []string{"Three"}, texts)

	clicked, err = page.Click(ctx, `a[aria-label="Next"]`)
	require.NoError(t, err)
	assert.False(t, clicked, "last page has no next link")
}

func TestStaticPageWaitForMissing(t *testing.T) {
	srv := newServer(t)
	page := NewStaticPage(srv.Client(), "")
	require.NoError(t, page.Navigate(context.Background(), srv.URL+"/jobs"))

	err := page.WaitFor(context.Background(), []string{"#jobDescriptionText"}, time.Second)
	assert.True(t, errors.Is(err, scraper.ErrNotReady))

	text, err := page.FirstText("#jobDescriptionText")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestStaticPageHTTPError(t *testing.T) {
	srv := newServer(t)
	page := NewStaticPage(srv.Client(), "")
	err := page.Navigate(context.Background(), srv.URL+"/blocked")
	assert.ErrorContains(t, err, "status 403")
}

func TestLoadCookies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	data := `[
		{"name":"CTK","value":"abc","domain":".indeed.com","path":"/","expires":1900000000,"httpOnly":true,"secure":true,"sameSite":"Lax"},
		{"name":"","value":"skip","domain":".indeed.com"},
		{"name":"JSESSIONID","value":"x","domain":"www.indeed.com"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cookies, err := LoadCookies(path)
	require.NoError(t, err)
	require.Len(t, cookies, 2)

	assert.Equal(t, "CTK", cookies[0].Name)
	assert.Equal(t, ".indeed.com", *cookies[0].Domain)
	assert.True(t, *cookies[0].HttpOnly)
	assert.NotNil(t, cookies[0].SameSite)
	assert.Equal(t, "/", *cookies[1].Path, "missing path defaults to root")
	assert.Nil(t, cookies[1].Expires)
}
