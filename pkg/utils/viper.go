package utils

import (
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

func ViperGetIntWithDefault(key string, defaultValue int) int {
	v := viper.GetInt(key)
	if v <= 0 {
		return defaultValue
	}
	return v
}

func ViperGetStringWithDefault(key string, defaultValue string) string {
	v := strings.TrimSpace(viper.GetString(key))
	if len(v) == 0 {
		return defaultValue
	}
	return v
}

// ViperGetSecondsWithDefault reads a duration written either as a number of
// seconds (30) or as a Go duration string ("30s", "1m").
func ViperGetSecondsWithDefault(key string, defaultValue time.Duration) time.Duration {
	raw := viper.Get(key)
	if raw == nil {
		return defaultValue
	}
	if s, ok := raw.(string); ok && strings.ContainsAny(s, "smh") {
		d, err := cast.ToDurationE(s)
		if err != nil || d <= 0 {
			return defaultValue
		}
		return d
	}
	seconds := cast.ToInt64(raw)
	if seconds <= 0 {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}
