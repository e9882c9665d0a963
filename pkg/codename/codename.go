package codename

import "github.com/punky97/go-codebase/core/apimono"

var (
	TrackingApi = apimono.NewApiCodeName("pageview-tracking-api", "/pageview")

	PageViewConsumer = "pageview-consumer"
)
