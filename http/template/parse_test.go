package template_test

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	"github.com/whisperbox/secrets/http/template"
)

func TestParse(t *testing.T) {
	// Arrange
	filesys := fstest.MapFS{
		"tmpl/base.tmpl":    {Data: []byte(`{{ block "content" . }}empty{{ end }}`)},
		"tmpl/content.tmpl": {Data: []byte(`{{ define "content" }}hello, {{ . }}{{ end }}`)},
	}
	p := template.NewParser(template.WithFS(filesys))

	// Act
	tmpl, err := p.Parse("tmpl/base.tmpl", "tmpl/content.tmpl")

	// Assert
	require.Nil(t, err)

	b := new(bytes.Buffer)
	require.Nil(t, tmpl.Execute(b, "world"))
	require.Equal(t, "hello, world", b.String())

	// Arrange + Act
	_, err = p.Parse()

	// Assert
	require.ErrorIs(t, err, template.ErrNoFiles)

	// Arrange + Act
	_, err = p.Parse("")

	// Assert
	require.ErrorIs(t, err, template.ErrNoFiles)
}

func TestParseAddFn(t *testing.T) {
	// Arrange
	filesys := fstest.MapFS{
		"greet.tmpl": {Data: []byte(`{{ greet }}`)},
	}
	p := template.NewParser(
		template.WithFS(filesys),
		template.WithFn("greet", func() string { return "hi" }),
	)

	// Act
	tmpl, err := p.Parse("greet.tmpl")

	// Assert
	require.Nil(t, err)

	b := new(bytes.Buffer)
	require.Nil(t, tmpl.Execute(b, nil))
	require.Equal(t, "hi", b.String())
}
