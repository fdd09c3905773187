package markdown

import (
	"html/template"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	r := New()

	tests := []struct {
		name     string
		input    string
		expected template.HTML
	}{
		{"normal text", "hello world", "<p>hello world</p>"},
		{"bold text", "**hello**", "<p><strong>hello</strong></p>"},
		{"italic text", "*hello*", "<p><em>hello</em></p>"},
		{"strikethrough", "~~gone~~", "<p><del>gone</del></p>"},
		{"heading gets an id", "## Recent activity", `<h2 id="recent-activity">Recent activity</h2>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Render([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRenderStripsActiveContent(t *testing.T) {
	r := New()

	got, err := r.Render([]byte("hi <script>alert(1)</script> <img src=x onerror=alert(1)>"))
	require.NoError(t, err)
	assert.NotContains(t, string(got), "<script")
	assert.NotContains(t, string(got), "onerror")

	got, err = r.Render([]byte("[x](javascript:alert(1))"))
	require.NoError(t, err)
	assert.NotContains(t, string(got), "javascript:")
}

func TestRenderSections(t *testing.T) {
	fsys := fstest.MapFS{
		"content/dashboard.md": {Data: []byte("# Dashboard")},
		"content/search.md":    {Data: []byte("Search *here*")},
	}
	r := New()

	sections, err := r.RenderSections(fsys, "content", []string{"dashboard", "search"})
	require.NoError(t, err)
	assert.Equal(t, template.HTML(`<h1 id="dashboard">Dashboard</h1>`), sections["dashboard"])
	assert.Equal(t, template.HTML("<p>Search <em>here</em></p>"), sections["search"])

	_, err = r.RenderSections(fsys, "content", []string{"favorites"})
	assert.ErrorContains(t, err, "section favorites")
}
