// Package settings loads the pixel credentials a site submits PageView events with.
package settings

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"pageview-capi/dto"
)

// Keys under which the four values are stored in every backend.
const (
	KeyPixelId      = "pixel_id"
	KeyAccessToken  = "access_token"
	KeyEmailAddress = "email_address"
	KeyTestId       = "test_id"
)

const (
	SourceViper = "viper"
	SourceMysql = "mysql"
	SourceRedis = "redis"
)

var (
	Keys = []string{KeyPixelId, KeyAccessToken, KeyEmailAddress, KeyTestId}

	ErrUnknownSource = errors.New("unknown settings source")
)

type Provider interface {
	Load(ctx context.Context) (*dto.Pixel, error)
}

// fromValues maps a key/value set onto a pixel; missing keys stay blank.
func fromValues(values map[string]string) *dto.Pixel {
	return &dto.Pixel{
		Id:       values[KeyPixelId],
		Token:    values[KeyAccessToken],
		Email:    values[KeyEmailAddress],
		TestCode: values[KeyTestId],
	}
}

// Source returns settings.source, defaulting to viper.
func Source() string {
	source := viper.GetString("settings.source")
	if len(source) == 0 {
		return SourceViper
	}
	return source
}
