package facebook_tracking

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"pageview-capi/dto"
	"strings"
	"time"
)

// EventOptions tweaks how BuildEvent fills user data.
type EventOptions struct {
	// HashExternalId sends sha256(lower(trim(email))) instead of the raw address.
	HashExternalId bool
}

// BuildEvent assembles the PageView event for one rendered page. It has no side
// effects; now is read once so event_time and a synthesized fbc always agree.
func BuildEvent(pixel *dto.Pixel, r *dto.RequestContext, now time.Time, opts EventOptions) *dto.DataItem {
	if r == nil {
		r = &dto.RequestContext{}
	}
	eventTime := now.Unix()

	userData := &dto.UserData{
		ClientIpAddress: r.ClientIp,
		ClientUserAgent: r.UserAgent,
	}
	if pixel != nil && len(pixel.Email) > 0 {
		userData.ExternalId = pixel.Email
		if opts.HashExternalId {
			userData.ExternalId = HashExternalId(pixel.Email)
		}
	}

	event := &dto.DataItem{
		EventName:      FbEventPageView,
		EventId:        EventIdPrefix + r.PageId,
		EventTime:      eventTime,
		EventSourceUrl: r.SourceUrl,
		ActionSource:   ActionSourceWebsite,
		UserData:       userData,
	}

	if fbp, ok := r.Cookie(CookieBrowserId); ok {
		event.Fbp = fbp
	}

	if fbc, ok := r.Cookie(CookieClickId); ok {
		event.Fbc = fbc
	} else if fbclid, ok := r.QueryParam(QueryClickId); ok {
		event.Fbc = fmt.Sprintf(clickIdFormat, eventTime, fbclid)
	}

	return event
}

// BuildSubmission wraps a single event into the request body for the pixel.
func BuildSubmission(pixel *dto.Pixel, event *dto.DataItem) *dto.Data {
	data := &dto.Data{
		Data: []*dto.DataItem{event},
	}
	if pixel == nil {
		return data
	}

	data.PixelId = pixel.Id
	if len(pixel.TestCode) > 0 {
		data.TestEventCode = pixel.TestCode
	}
	return data
}

func HashExternalId(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}
