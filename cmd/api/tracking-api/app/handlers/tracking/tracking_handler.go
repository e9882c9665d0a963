package tracking

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/punky97/go-codebase/core/logger"
	"github.com/punky97/go-codebase/core/transport/transhttp"
	beekit_utils "github.com/punky97/go-codebase/core/utils"
	"pageview-capi/dto"
)

type PageTracker interface {
	Track(ctx context.Context, r *dto.RequestContext)
}

// TrackingHandler serves POST /track, called by a CMS render hook once per page.
type TrackingHandler struct {
	Submitter PageTracker
}

type TrackingResponse struct {
	Success      bool   `json:"success,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

func (h *TrackingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body := &dto.TrackingBody{}
	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		logger.BkLog.Infof("Error during parse TrackingBody form %v", err)
		transhttp.RespondJSON(w, http.StatusBadRequest, TrackingResponse{
			Success:      false,
			ErrorMessage: err.Error(),
		})
		return
	}

	start := time.Now()
	defer func() {
		logger.BkLog.Debugf("Track page %v took: %v", body.PageId, time.Since(start))
	}()

	h.Submitter.Track(r.Context(), h.convertBody(r, body))

	transhttp.RespondJSON(w, http.StatusOK, TrackingResponse{
		Success: true,
	})
}

// convertBody fills what the hook did not forward from the calling request.
func (h *TrackingHandler) convertBody(r *http.Request, body *dto.TrackingBody) *dto.RequestContext {
	reqCtx := &dto.RequestContext{
		ClientIp:  body.ClientIpAddress,
		UserAgent: body.ClientUserAgent,
		Cookies:   body.Cookies,
		Query:     body.Query,
		SourceUrl: body.SourceUrl,
		PageId:    body.PageId,
	}
	if len(reqCtx.ClientIp) == 0 {
		reqCtx.ClientIp = beekit_utils.GetIpAddressFromRequest(r)
	}
	if len(reqCtx.UserAgent) == 0 {
		reqCtx.UserAgent = r.Header.Get("User-Agent")
	}
	return reqCtx
}
