package utils

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

// GetEnv returns the variable or defaultVal, logging which one was used.
func GetEnv(key, defaultVal string, log *logger.Logger) string {
	if log != nil {
		log = log.With("env_var", key)
	}
	val, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(val) == "" {
		if log != nil {
			log.Debug("Environment variable not found, using default", "default", defaultVal)
		}
		return defaultVal
	}
	if log != nil {
		log.Debug("Environment variable found, using environment", "environment", val)
	}
	return val
}

func GetEnvAsInt(key string, defaultVal int, log *logger.Logger) int {
	if log != nil {
		log = log.With("env_var", key)
	}
	raw, ok := os.LookupEnv(key)
	if !ok {
		if log != nil {
			log.Debug("Environment variable not found, using default", "default", defaultVal)
		}
		return defaultVal
	}
	i, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		if log != nil {
			log.Warn("Environment variable could not be parsed as int, using default", "provided", raw, "default", defaultVal, "error", err)
		}
		return defaultVal
	}
	return i
}

// GetEnvAsSeconds reads an integer number of seconds.
func GetEnvAsSeconds(key string, defaultVal time.Duration, log *logger.Logger) time.Duration {
	secs := GetEnvAsInt(key, int(defaultVal/time.Second), log)
	if secs <= 0 {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}
