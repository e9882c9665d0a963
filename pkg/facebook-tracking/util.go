package facebook_tracking

import (
	"fmt"
	"github.com/spf13/viper"
	"pageview-capi/dto"
	"strings"
)

// GetPixelByCode reads the compact "pixel_id/token-testcode-code" list stored
// under tracking.<code> and returns its first pixel.
func GetPixelByCode(code string) *dto.Pixel {
	pixels := ParseFacebookTracking(viper.GetString(fmt.Sprintf("tracking.%v", code)))
	if len(pixels) == 0 {
		return nil
	}
	return pixels[0]
}

func ParsePixelSetting(pixelWithToken string) *dto.Pixel {
	pixels := strings.Split(pixelWithToken, "/")

	pixelId := strings.Trim(pixels[0], " \t")
	if len(pixelId) == 0 {
		return nil
	}

	// Only pixel_id
	pixel := &dto.Pixel{Id: pixelId}
	if len(pixels) == 1 {
		return pixel
	}

	// Pixel & token
	tokens := strings.Split(pixels[1], "-testcode-")

	// don't have test code
	pixel.Token = strings.Trim(tokens[0], " \t")
	if len(tokens) == 1 {
		return pixel
	}

	//has test code
	pixel.TestCode = strings.Trim(tokens[1], " \t")
	return pixel
}

func ParseFacebookTracking(raw string) []*dto.Pixel {
	lines := strings.Split(raw, "\n")

	result := make([]*dto.Pixel, 0)
	for _, line := range lines {
		for _, pixelWithToken := range strings.Split(line, ",") {
			if pixel := ParsePixelSetting(pixelWithToken); pixel != nil {
				result = append(result, pixel)
			}
		}
	}

	return result
}
