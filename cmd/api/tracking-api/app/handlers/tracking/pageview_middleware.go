package tracking

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	beekit_utils "github.com/punky97/go-codebase/core/utils"
	"github.com/urfave/negroni"
	"pageview-capi/dto"
)

const (
	// HeaderPageId lets the page handler name the page it rendered.
	HeaderPageId = "X-Page-Id"
	// PathVar is the mux variable holding the page path when the middleware is
	// mounted on a prefixed route such as /site/{path:.*}.
	PathVar = "path"
)

// PageViewMiddleware tracks every successfully rendered HTML page of the routes it
// is mounted on.
type PageViewMiddleware struct {
	tracker PageTracker
	siteUrl string
}

func NewPageViewMiddleware(tracker PageTracker, siteUrl string) *PageViewMiddleware {
	return &PageViewMiddleware{tracker: tracker, siteUrl: strings.TrimRight(siteUrl, "/")}
}

func (m *PageViewMiddleware) ServeHTTP(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	nrw, ok := rw.(negroni.ResponseWriter)
	if !ok {
		nrw = negroni.NewResponseWriter(rw)
	}
	next(nrw, r)

	if !isRenderedPage(r, nrw) {
		return
	}
	m.tracker.Track(r.Context(), m.requestContext(r, nrw.Header().Get(HeaderPageId)))
}

func isRenderedPage(r *http.Request, rw negroni.ResponseWriter) bool {
	if r.Method != http.MethodGet {
		return false
	}
	status := rw.Status()
	if status == 0 {
		status = http.StatusOK
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return false
	}
	return strings.HasPrefix(rw.Header().Get("Content-Type"), "text/html")
}

func (m *PageViewMiddleware) requestContext(r *http.Request, pageId string) *dto.RequestContext {
	path := pagePath(r)
	if len(pageId) == 0 {
		pageId = path
	}

	cookies := make(map[string]string)
	for _, c := range r.Cookies() {
		if _, seen := cookies[c.Name]; !seen {
			cookies[c.Name] = c.Value
		}
	}

	query := make(map[string]string)
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			query[k] = v[0]
		}
	}

	return &dto.RequestContext{
		ClientIp:  beekit_utils.GetIpAddressFromRequest(r),
		UserAgent: r.Header.Get("User-Agent"),
		Cookies:   cookies,
		Query:     query,
		SourceUrl: m.canonicalUrl(r, path),
		PageId:    pageId,
	}
}

func pagePath(r *http.Request) string {
	if v, ok := mux.Vars(r)[PathVar]; ok {
		return "/" + strings.TrimLeft(v, "/")
	}
	return r.URL.Path
}

// canonicalUrl drops the query string, the way a permalink does.
func (m *PageViewMiddleware) canonicalUrl(r *http.Request, path string) string {
	if len(m.siteUrl) > 0 {
		return m.siteUrl + path
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + path
}
