package config

import (
	"os"
	"strconv"
	"time"
)

var defaultValues = map[string]interface{}{
	"HEALTHVIEW_SOURCE":           "offline",            // offline, sqlite, file or memory
	"HEALTHVIEW_DB_PATH":          "/tmp/healthview.db", // SQLite health export
	"HEALTHVIEW_EXPORT_PATH":      "./export.yaml",      // YAML health export
	"HEALTHVIEW_IDENTITY":         "",                   // shown in Dump() output
	"HEALTHVIEW_LISTEN_ADDR":      ":8080",
	"HEALTHVIEW_SHUTDOWN_TIMEOUT": 5 * time.Second,
	"HEALTHVIEW_LOG_FORMAT":       "console", // console or json
	"HEALTHVIEW_DEBUG":            false,
}

func StringValue(key string) string {
	if defaultValue, ok := defaultValues[key]; ok {
		if s, ok := defaultValue.(string); ok {
			return getEnvVar(key, s).(string)
		}
	}
	return ""
}

// IntValue gets an int value from the env or default
func IntValue(key string) int {
	if defaultValue, ok := defaultValues[key]; ok {
		if i, ok := defaultValue.(int); ok {
			return getEnvVar(key, i).(int)
		}
	}
	return 0
}

// BoolValue gets a bool value from the env or default
func BoolValue(key string) bool {
	if defaultValue, ok := defaultValues[key]; ok {
		if b, ok := defaultValue.(bool); ok {
			return getEnvVar(key, b).(bool)
		}
	}
	return false
}

// DurationValue gets a duration from the env (e.g. "5s") or default
func DurationValue(key string) time.Duration {
	if defaultValue, ok := defaultValues[key]; ok {
		if d, ok := defaultValue.(time.Duration); ok {
			return getEnvVar(key, d).(time.Duration)
		}
	}
	return 0
}

func getEnvVar(key string, fallback interface{}) interface{} {

	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}

	switch fallback.(type) {
	case string:
		return value
	case bool:
		valueAsBool, err := strconv.ParseBool(value)
		if err != nil {
			return fallback
		}
		return valueAsBool
	case int:
		valueAsInt, err := strconv.Atoi(value)
		if err != nil {
			return fallback
		}
		return valueAsInt
	case time.Duration:
		valueAsDuration, err := time.ParseDuration(value)
		if err != nil {
			return fallback
		}
		return valueAsDuration
	}
	return fallback
}
