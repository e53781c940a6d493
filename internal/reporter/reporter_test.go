package reporter

import (
	"errors"
	"html"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

type stubReporter struct {
	statuses []string
	fail     error
}

func (s *stubReporter) SendStatus(message string) error {
	s.statuses = append(s.statuses, message)
	return s.fail
}

func (s *stubReporter) SendError(err error) error {
	return s.fail
}

func TestMultiSendsToAll(t *testing.T) {
	a := &stubReporter{}
	b := &stubReporter{fail: errors.New("telegram down")}

	err := Multi{LogReporter{}, a, b}.SendStatus("done")
	assert.ErrorContains(t, err, "telegram down")
	assert.Equal(t, []string{"done"}, a.statuses)
	assert.Equal(t, []string{"done"}, b.statuses)

	assert.NoError(t, Multi{LogReporter{}, a}.SendError(errors.New("x")))
}

func TestFormatStatus(t *testing.T) {
	assert.Equal(t, "ℹ️ <pre>a &lt; b</pre>", formatStatus("a < b"))

	long := formatStatus(strings.Repeat("x", 5000))
	assert.LessOrEqual(t, len(long), telegramLimit)
	assert.True(t, strings.HasSuffix(long, "…</pre>"))
}

func TestFormatStatusTruncatesOnBoundaries(t *testing.T) {
	tests := []struct {
		name string
		msg  string
	}{
		{"multi-byte runes", strings.Repeat("é", 3000)},
		{"entities", strings.Repeat("&", 2000)},
		{"offset entities", "x" + strings.Repeat("<", 2000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatStatus(tt.msg)
			assert.LessOrEqual(t, len(got), telegramLimit)
			assert.True(t, utf8.ValidString(got))

			body := strings.TrimSuffix(strings.TrimPrefix(got, "ℹ️ <pre>"), "…</pre>")
			assert.Equal(t, tt.msg[:len(html.UnescapeString(body))], html.UnescapeString(body), "body is a whole-entity prefix")
			if amp := strings.LastIndexByte(body, '&'); amp >= 0 {
				assert.Contains(t, body[amp:], ";")
			}
		})
	}
}
