package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/punky97/go-codebase/core/apimono"
	"github.com/punky97/go-codebase/core/logger"
	"github.com/punky97/go-codebase/core/transport/transhttp"
	"github.com/spf13/viper"
	"github.com/urfave/negroni"
	"pageview-capi/cmd/api/tracking-api/app/handlers/tracking"
	"pageview-capi/pkg/dispatch"
	facebook_tracking "pageview-capi/pkg/facebook-tracking"
	"pageview-capi/pkg/graphapi"
	"pageview-capi/pkg/settings"
)

type server struct {
	submitter     *facebook_tracking.Submitter
	dispatcher    dispatch.Dispatcher
	closeSettings func()
	closeOnce     sync.Once
}

var s = &server{}

func NewServer(apimonoApp *apimono.App) error {
	provider, closeSettings, err := settings.NewFromConfig(context.Background())
	if err != nil {
		return err
	}

	client := graphapi.NewClient()
	dispatcher, err := dispatch.NewFromConfig(facebook_tracking.NewSubmitFunc(client))
	if err != nil {
		closeSettings()
		return err
	}

	s.closeSettings = closeSettings
	s.dispatcher = dispatcher
	s.submitter = &facebook_tracking.Submitter{
		Settings:   provider,
		Dispatcher: dispatcher,
		NewJob:     dispatch.NewJob,
		Options: facebook_tracking.EventOptions{
			HashExternalId: viper.GetBool("tracking.hash_external_id"),
		},
	}

	apimonoApp.AddRoutes(s.InitTrackingRoutes(apimonoApp.HTTPBasePath))
	return nil
}

func OnClose() {
	s.closeOnce.Do(func() {
		if s.dispatcher != nil {
			s.dispatcher.Close()
		}
		if s.closeSettings != nil {
			s.closeSettings()
		}
	})
}

func (s *server) InitTrackingRoutes(basePath string) transhttp.Routes {
	routes := transhttp.Routes{
		transhttp.Route{
			Name:     "Track page view",
			Method:   http.MethodPost,
			BasePath: basePath,
			Pattern:  "/track",
			Handler: &tracking.TrackingHandler{
				Submitter: s.submitter,
			},
		},
	}

	upstream := viper.GetString("proxy.upstream")
	if len(upstream) == 0 {
		return routes
	}

	proxy, err := tracking.NewPageProxy(upstream)
	if err != nil {
		logger.BkLog.Errorw("Invalid proxy.upstream, page proxy disabled", "upstream", upstream, "error", err.Error())
		return routes
	}
	logger.BkLog.Infof("Proxying pages to %v", upstream)

	return append(routes, transhttp.Route{
		Name:        "Proxy tracked pages",
		Method:      http.MethodGet,
		Pattern:     fmt.Sprintf("/{%v:.*}", tracking.PathVar),
		Handler:     proxy,
		Middlewares: []negroni.Handler{tracking.NewPageViewMiddleware(s.submitter, viper.GetString("tracking.site_url"))},
	})
}
