package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"pageview-capi/dto"
	facebook_tracking "pageview-capi/pkg/facebook-tracking"
)

// ViperStore reads settings.<key> from the loaded configuration. When no pixel id
// is configured it falls back to the compact tracking.main_pixel setting.
type ViperStore struct {
	Prefix string
}

func NewViperStore() *ViperStore {
	return &ViperStore{Prefix: "settings"}
}

func (s *ViperStore) Load(ctx context.Context) (*dto.Pixel, error) {
	values := make(map[string]string, len(Keys))
	for _, key := range Keys {
		values[key] = strings.TrimSpace(viper.GetString(fmt.Sprintf("%v.%v", s.Prefix, key)))
	}
	pixel := fromValues(values)

	if len(pixel.Id) == 0 {
		if compact := facebook_tracking.GetPixelByCode(facebook_tracking.MainPixelCode); compact != nil {
			compact.Email = pixel.Email
			if len(compact.TestCode) == 0 {
				compact.TestCode = pixel.TestCode
			}
			return compact, nil
		}
	}
	return pixel, nil
}
