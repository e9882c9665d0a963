package tracking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/negroni"
	"pageview-capi/dto"
)

type recordingTracker struct {
	tracked []*dto.RequestContext
}

func (t *recordingTracker) Track(ctx context.Context, r *dto.RequestContext) {
	t.tracked = append(t.tracked, r)
}

func TestTrackingHandler(t *testing.T) {
	tracker := &recordingTracker{}
	h := &TrackingHandler{Submitter: tracker}

	body := `{"page_id":"42","source_url":"https://example.com/p/","client_ip_address":"203.0.113.9",
		"client_user_agent":"Mozilla/5.0","cookies":{"_fbp":"fb.1.111.222"},"query":{"fbclid":"abc123"}}`
	req := httptest.NewRequest(http.MethodPost, "/pageview/track", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	res := TrackingResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	require.Len(t, tracker.tracked, 1)

	got := tracker.tracked[0]
	assert.Equal(t, "42", got.PageId)
	assert.Equal(t, "https://example.com/p/", got.SourceUrl)
	assert.Equal(t, "203.0.113.9", got.ClientIp)
	assert.Equal(t, "Mozilla/5.0", got.UserAgent)
	assert.Equal(t, "fb.1.111.222", got.Cookies["_fbp"])
	assert.Equal(t, "abc123", got.Query["fbclid"])
}

func TestTrackingHandlerFallsBackToRequest(t *testing.T) {
	tracker := &recordingTracker{}
	h := &TrackingHandler{Submitter: tracker}

	req := httptest.NewRequest(http.MethodPost, "/pageview/track", strings.NewReader(`{"page_id":"1"}`))
	req.Header.Set("User-Agent", "hook-agent")
	req.Header.Set("X-Real-IP", "198.51.100.7")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	require.Len(t, tracker.tracked, 1)
	assert.Equal(t, "198.51.100.7", tracker.tracked[0].ClientIp)
	assert.Equal(t, "hook-agent", tracker.tracked[0].UserAgent)
}

func TestTrackingHandlerBadBody(t *testing.T) {
	tracker := &recordingTracker{}
	h := &TrackingHandler{Submitter: tracker}

	req := httptest.NewRequest(http.MethodPost, "/pageview/track", strings.NewReader(`{`))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, tracker.tracked)
}

func servePage(m *PageViewMiddleware, req *http.Request, page http.HandlerFunc) *httptest.ResponseRecorder {
	n := negroni.New(m)
	n.UseHandler(page)
	rec := httptest.NewRecorder()
	n.ServeHTTP(rec, req)
	return rec
}

func htmlPage(pageId string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if len(pageId) > 0 {
			w.Header().Set(HeaderPageId, pageId)
		}
		w.Write([]byte("<html></html>"))
	}
}

func TestPageViewMiddleware(t *testing.T) {
	tracker := &recordingTracker{}
	m := NewPageViewMiddleware(tracker, "https://example.com/")

	req := httptest.NewRequest(http.MethodGet, "/hello-world/?fbclid=abc123&utm_source=fb", nil)
	req.RemoteAddr = "203.0.113.9:5555"
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.AddCookie(&http.Cookie{Name: "_fbp", Value: "fb.1.111.222"})

	rec := servePage(m, req, htmlPage("42"))

	assert.Equal(t, "<html></html>", rec.Body.String())
	require.Len(t, tracker.tracked, 1)

	got := tracker.tracked[0]
	assert.Equal(t, "42", got.PageId)
	assert.Equal(t, "https://example.com/hello-world/", got.SourceUrl)
	assert.Equal(t, "203.0.113.9", got.ClientIp)
	assert.Equal(t, "Mozilla/5.0", got.UserAgent)
	assert.Equal(t, "fb.1.111.222", got.Cookies["_fbp"])
	_, hasFbc := got.Cookies["_fbc"]
	assert.False(t, hasFbc)
	assert.Equal(t, "abc123", got.Query["fbclid"])
}

func TestPageViewMiddlewareKeepsEmptyCookies(t *testing.T) {
	tracker := &recordingTracker{}
	m := NewPageViewMiddleware(tracker, "https://example.com")

	req := httptest.NewRequest(http.MethodGet, "/post?fbclid=abc123", nil)
	req.Header.Set("Cookie", "_fbc=; _fbp=fb.1.111.222")
	servePage(m, req, htmlPage("5"))

	require.Len(t, tracker.tracked, 1)
	fbc, hasFbc := tracker.tracked[0].Cookie("_fbc")
	assert.True(t, hasFbc)
	assert.Equal(t, "", fbc)
	assert.Equal(t, "fb.1.111.222", tracker.tracked[0].Cookies["_fbp"])
}

func TestPageViewMiddlewareDefaults(t *testing.T) {
	tracker := &recordingTracker{}
	m := NewPageViewMiddleware(tracker, "")

	req := httptest.NewRequest(http.MethodGet, "http://blog.example.com/about", nil)
	servePage(m, req, htmlPage(""))

	require.Len(t, tracker.tracked, 1)
	assert.Equal(t, "/about", tracker.tracked[0].PageId)
	assert.Equal(t, "http://blog.example.com/about", tracker.tracked[0].SourceUrl)
}

func TestPageViewMiddlewareMuxPath(t *testing.T) {
	tracker := &recordingTracker{}
	m := NewPageViewMiddleware(tracker, "https://example.com")

	req := httptest.NewRequest(http.MethodGet, "/site/about?fbclid=x", nil)
	req = mux.SetURLVars(req, map[string]string{PathVar: "about"})
	servePage(m, req, htmlPage(""))

	require.Len(t, tracker.tracked, 1)
	assert.Equal(t, "/about", tracker.tracked[0].PageId)
	assert.Equal(t, "https://example.com/about", tracker.tracked[0].SourceUrl)
}

func TestPageViewMiddlewareSkips(t *testing.T) {
	tracker := &recordingTracker{}
	m := NewPageViewMiddleware(tracker, "https://example.com")

	servePage(m, httptest.NewRequest(http.MethodPost, "/form", nil), htmlPage("1"))
	servePage(m, httptest.NewRequest(http.MethodGet, "/missing", nil), func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusNotFound)
	})
	servePage(m, httptest.NewRequest(http.MethodGet, "/style.css", nil), func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/css")
		w.Write([]byte("body{}"))
	})

	assert.Empty(t, tracker.tracked)
}

func TestPageProxy(t *testing.T) {
	upstream := httptest.NewServer(htmlPage("7"))
	defer upstream.Close()

	proxy, err := NewPageProxy(upstream.URL)
	require.NoError(t, err)

	tracker := &recordingTracker{}
	m := NewPageViewMiddleware(tracker, "https://example.com")
	rec := servePage(m, httptest.NewRequest(http.MethodGet, "/post", nil), proxy.ServeHTTP)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, tracker.tracked, 1)
	assert.Equal(t, "7", tracker.tracked[0].PageId)

	_, err = NewPageProxy("not a url")
	assert.Error(t, err)
}
