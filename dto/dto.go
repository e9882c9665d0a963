package dto

// RequestContext is everything the page request contributes to a PageView event.
// Cookies and Query only carry keys that were present on the request, so an empty
// value still counts as present.
type RequestContext struct {
	ClientIp  string
	UserAgent string
	Cookies   map[string]string
	Query     map[string]string
	SourceUrl string
	PageId    string
}

func (r *RequestContext) Cookie(name string) (string, bool) {
	if r == nil || r.Cookies == nil {
		return "", false
	}
	v, ok := r.Cookies[name]
	return v, ok
}

func (r *RequestContext) QueryParam(name string) (string, bool) {
	if r == nil || r.Query == nil {
		return "", false
	}
	v, ok := r.Query[name]
	return v, ok
}

// TrackingBody is the payload a render hook posts to /track.
type TrackingBody struct {
	PageId          string            `json:"page_id"`
	SourceUrl       string            `json:"source_url"`
	ClientIpAddress string            `json:"client_ip_address"`
	ClientUserAgent string            `json:"client_user_agent"`
	Cookies         map[string]string `json:"cookies"`
	Query           map[string]string `json:"query"`
}

// Job is one submission travelling through a dispatcher.
type Job struct {
	Id         string `json:"id"`
	Pixel      *Pixel `json:"pixel"`
	Submission *Data  `json:"submission"`
	CreatedAt  int64  `json:"created_at"`
}
