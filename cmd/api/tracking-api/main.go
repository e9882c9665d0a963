package main

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/punky97/go-codebase/core/apimono"
	"github.com/punky97/go-codebase/core/logger"
	"github.com/spf13/viper"
	"pageview-capi/cmd/api/tracking-api/app"
	"pageview-capi/pkg/codename"
)

var version string

func main() {
	trackingApp, hs := apimono.NewAPIApp(
		codename.TrackingApi.CodeName,
		codename.TrackingApi.HTTPBasePath,
		version,
		shutdown,
	)
	logger.BkLog.Infof("Starting %v %v: settings.source=%v dispatch.mode=%v",
		codename.TrackingApi.CodeName, version,
		viper.GetString("settings.source"), viper.GetString("dispatch.mode"))

	if err := app.NewServer(trackingApp); err != nil {
		logger.BkLog.Fatalf("Could not init tracking server: %v", err)
	}
	defer shutdown(trackingApp)

	if err := trackingApp.RunAPI(hs); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.BkLog.Errorf("Tracking api stopped with error: %v", err)
		return
	}
	logger.BkLog.Info("Tracking api stopped")
}

// shutdown drains pending submissions before the app releases its listeners.
func shutdown(trackingApp *apimono.App) {
	app.OnClose()
	trackingApp.Shutdown()
}
