package resume

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUploadText(t *testing.T) {
	text, err := ParseUpload("cv.TXT", strings.NewReader("  Python, SQL and Docker\n"))
	require.NoError(t, err)
	assert.Equal(t, "Python, SQL and Docker", text)
}

func TestParseUploadUnsupported(t *testing.T) {
	for _, name := range []string{"cv.png", "cv", "cv.exe"} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseUpload(name, strings.NewReader("x"))
			assert.ErrorIs(t, err, ErrUnsupported)
		})
	}
}
