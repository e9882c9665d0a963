package tracking

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/pkg/errors"
)

// NewPageProxy forwards page requests to the site being tracked.
func NewPageProxy(upstream string) (http.Handler, error) {
	target, err := url.Parse(upstream)
	if err != nil {
		return nil, errors.Wrap(err, "parse upstream")
	}
	if len(target.Scheme) == 0 || len(target.Host) == 0 {
		return nil, errors.Errorf("upstream %q needs a scheme and host", upstream)
	}
	return httputil.NewSingleHostReverseProxy(target), nil
}
