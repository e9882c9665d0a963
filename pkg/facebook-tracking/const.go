package facebook_tracking

const (
	FbEventPageView     = "PageView"
	ActionSourceWebsite = "website"
	EventIdPrefix       = "event_"

	CookieBrowserId = "_fbp"
	CookieClickId   = "_fbc"
	QueryClickId    = "fbclid"

	// fb.<subdomain index>.<creation time>.<fbclid>
	clickIdFormat = "fb.1.%v.%v"

	MainPixelCode = "main_pixel"
)
