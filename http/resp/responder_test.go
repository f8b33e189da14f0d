package resp_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	"github.com/whisperbox/secrets"
	"github.com/whisperbox/secrets/http/resp"
	"github.com/whisperbox/secrets/http/session"
	"github.com/whisperbox/secrets/http/template"
)

type testUser struct{ ID uint }

func (u testUser) GetID() uint        { return u.ID }
func (u testUser) GetDisplay() string { return fmt.Sprintf("user-%d", u.ID) }

func testParser() template.Parser {
	return template.NewParser(template.WithFS(fstest.MapFS{
		"tmpl/unauthed.tmpl": {Data: []byte(`unauthed:{{ range .Flashes }}{{ .Msg }}{{ end }}{{ block "content" .Data }}{{ end }}`)},
		"tmpl/authed.tmpl":   {Data: []byte(`authed:{{ with currentUser }}{{ .GetDisplay }}!{{ end }}{{ block "content" .Data }}{{ end }}`)},
		"tmpl/err.tmpl":      {Data: []byte(`oops`)},
		"tmpl/hello.tmpl":    {Data: []byte(`{{ define "content" }}hello {{ . }}{{ end }}`)},
	}))
}

func sessionCtx(r *http.Request) *http.Request {
	s, _ := session.NewStub(false).GetSession(r)
	return r.Clone(context.WithValue(r.Context(), secrets.SessionKey, s))
}

func TestResponderRedirect(t *testing.T) {
	// Arrange
	d := resp.NewResponder(resp.WithRootUrl("https://example.com"))
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	// Act
	err := d.Redirect(w, r)

	// Assert
	require.Nil(t, err)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "https://example.com", w.Header().Get("Location"))

	// Arrange
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	// Act
	err = d.Redirect(w, r, resp.Url("https://example.com/next"), resp.Code(http.StatusBadRequest))

	// Assert
	require.Nil(t, err)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "https://example.com/next", w.Header().Get("Location"))

	// Arrange
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	// Act
	err = d.Redirect(w, r, resp.Url("https://example.com/login"), resp.Param("next", "/secrets"))

	// Assert
	require.Nil(t, err)
	require.Equal(t, "https://example.com/login?next=%2Fsecrets", w.Header().Get("Location"))
}

func TestResponderJson(t *testing.T) {
	// Arrange
	d := resp.NewResponder()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	// Act
	err := d.Json(w, r, resp.Data(map[string]interface{}{"ok": true}), resp.User(testUser{ID: 1}))

	// Assert
	require.Nil(t, err)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json; charset=UTF-8", w.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body, "data")
	require.Contains(t, body, "currentUser")

	// Arrange
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	// Act
	err = d.Json(w, r, resp.User(testUser{ID: 1}), resp.Code(http.StatusBadRequest))

	// Assert
	require.Nil(t, err)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body = nil
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotContains(t, body, "currentUser")
}

func TestResponderHtml(t *testing.T) {
	// Arrange
	d := resp.NewResponder(
		resp.WithParser(testParser()),
		resp.WithRootUrl("https://example.com"),
		resp.WithAuthTemplate("tmpl/authed.tmpl"),
		resp.WithUnauthTemplate("tmpl/unauthed.tmpl"),
		resp.WithErrTemplate("tmpl/err.tmpl"),
	)
	w := httptest.NewRecorder()
	r := sessionCtx(httptest.NewRequest(http.MethodGet, "https://example.com", nil))

	// Act
	err := d.Html(w, r, resp.Unauthed(), resp.Tmpls("tmpl/hello.tmpl"), resp.Data("world"))

	// Assert
	require.Nil(t, err)
	require.Equal(t, "unauthed:hello world", w.Body.String())

	// Arrange
	w = httptest.NewRecorder()
	r = sessionCtx(httptest.NewRequest(http.MethodGet, "https://example.com", nil))

	// Act
	err = d.Html(w, r, resp.Unauthed(), resp.Tmpls("tmpl/hello.tmpl"), resp.Data("world"),
		resp.Flash(session.Flash{Class: session.FlashError, Msg: session.BadCredsMsg}))

	// Assert
	require.Nil(t, err)
	require.Equal(t, "unauthed:"+session.BadCredsMsg+"hello world", w.Body.String())

	// Arrange
	w = httptest.NewRecorder()
	r = sessionCtx(httptest.NewRequest(http.MethodGet, "https://example.com", nil))
	r = r.Clone(context.WithValue(r.Context(), secrets.CurrentUserKey, testUser{ID: 1}))

	// Act
	err = d.Html(w, r, resp.Authed(), resp.Tmpls("tmpl/hello.tmpl"), resp.Data("world"))

	// Assert
	require.Nil(t, err)
	require.Equal(t, "authed:user-1!hello world", w.Body.String())

	// Arrange, no current user for an authed render
	w = httptest.NewRecorder()
	r = sessionCtx(httptest.NewRequest(http.MethodGet, "https://example.com", nil))

	// Act
	err = d.Html(w, r, resp.Authed(), resp.Tmpls("tmpl/hello.tmpl"))

	// Assert: the error template rendered, so nothing is left to report
	require.Nil(t, err)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "oops", w.Body.String())
}

func TestResponderHtmlConcurrentAuthedRenders(t *testing.T) {
	// Arrange
	d := resp.NewResponder(
		resp.WithParser(testParser()),
		resp.WithRootUrl("https://example.com"),
		resp.WithAuthTemplate("tmpl/authed.tmpl"),
		resp.WithUnauthTemplate("tmpl/unauthed.tmpl"),
		resp.WithErrTemplate("tmpl/err.tmpl"),
	)

	// Act: renders for different principals must not bleed into one another
	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			expected := fmt.Sprintf("authed:user-%d!hello %d", id, id)

			for j := 0; j < 25; j++ {
				w := httptest.NewRecorder()
				r := sessionCtx(httptest.NewRequest(http.MethodGet, "https://example.com", nil))
				r = r.Clone(context.WithValue(r.Context(), secrets.CurrentUserKey, testUser{ID: id}))

				err := d.Html(w, r, resp.Authed(), resp.Tmpls("tmpl/hello.tmpl"), resp.Data(id))
				if err != nil {
					t.Errorf("render for user-%d: %s", id, err)
					return
				}

				// Assert
				if actual := w.Body.String(); actual != expected {
					t.Errorf("render for user-%d saw %q", id, actual)
					return
				}
			}
		}(uint(i))
	}
	wg.Wait()
}

func TestResponderErr(t *testing.T) {
	// Arrange
	d := resp.NewResponder()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	// Act
	d.Err(w, r, errors.New("kaboom"))

	// Assert
	require.Equal(t, http.StatusInternalServerError, w.Code)
}
