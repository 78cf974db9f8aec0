package view

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layout.html":         {Data: []byte(`<title>{{block "title" .}}Yatube{{end}}</title>{{block "content" .}}{{end}}`)},
		"partials/greet.html": {Data: []byte(`{{define "greet"}}hello {{.}}{{end}}`)},
		"index.html":          {Data: []byte(`{{define "content"}}{{template "greet" .Name}}{{end}}`)},
		"misc/404.html":       {Data: []byte(`{{define "title"}}Not found{{end}}{{define "content"}}{{.Path}}{{end}}`)},
	}
}

func TestLoad_Pages(t *testing.T) {
	tmpl, err := Load(testFS())
	require.NoError(t, err)

	assert.True(t, tmpl.Has("index"))
	assert.True(t, tmpl.Has("misc/404"))
	assert.False(t, tmpl.Has("layout"))
	assert.False(t, tmpl.Has("partials/greet"))
}

func TestRender(t *testing.T) {
	tmpl, err := Load(testFS())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	tmpl.Render(rec, http.StatusOK, "index", struct{ Name string }{"<kostya>"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<title>Yatube</title>hello &lt;kostya&gt;", rec.Body.String())

	rec = httptest.NewRecorder()
	tmpl.Render(rec, http.StatusNotFound, "misc/404", struct{ Path string }{"/missing/"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "<title>Not found</title>/missing/", rec.Body.String())
}

func TestRender_UnknownPage(t *testing.T) {
	tmpl, err := Load(testFS())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	tmpl.Render(rec, http.StatusOK, "nope", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestEmbedded(t *testing.T) {
	tmpl, err := Embedded()
	require.NoError(t, err)

	for _, name := range []string{"index", "group", "profile", "post", "new", "follow", "login", "signup", "misc/404", "misc/500"} {
		assert.True(t, tmpl.Has(name), "missing page %s", name)
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	rec := httptest.NewRecorder()
	r.Render(rec, http.StatusCreated, "index", 42)

	last := r.Last()
	assert.Equal(t, "index", last.Name)
	assert.Equal(t, 42, last.Data)
	assert.Equal(t, http.StatusCreated, rec.Code)

	r.Reset()
	assert.Empty(t, r.Last().Name)
}
