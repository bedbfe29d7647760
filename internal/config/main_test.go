package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// adds our test values to the defaults table
func init() {
	defaultValues["_TEST_INT_VALUE"] = 10
	defaultValues["_TEST_STR_VALUE"] = "AAA"
	defaultValues["_TEST_BOOL_VALUE"] = false
	defaultValues["_TEST_DURATION_VALUE"] = 3 * time.Second
}

func TestString(t *testing.T) {
	assert.Equal(t, "AAA", StringValue("_TEST_STR_VALUE"))

	t.Setenv("_TEST_STR_VALUE", "hello")
	assert.Equal(t, "hello", StringValue("_TEST_STR_VALUE"))

	assert.Equal(t, "", StringValue("_TEST_NOT_IN_DEFAULTS"))
}

func TestInt(t *testing.T) {
	assert.Equal(t, 10, IntValue("_TEST_INT_VALUE"))

	t.Setenv("_TEST_INT_VALUE", "20")
	assert.Equal(t, 20, IntValue("_TEST_INT_VALUE"))

	// a non-int env var is ignored
	t.Setenv("_TEST_INT_VALUE", ";")
	assert.Equal(t, 10, IntValue("_TEST_INT_VALUE"))
}

func TestBool(t *testing.T) {
	assert.False(t, BoolValue("_TEST_BOOL_VALUE"))

	t.Setenv("_TEST_BOOL_VALUE", "true")
	assert.True(t, BoolValue("_TEST_BOOL_VALUE"))

	t.Setenv("_TEST_BOOL_VALUE", "hello")
	assert.False(t, BoolValue("_TEST_BOOL_VALUE"))
}

func TestDuration(t *testing.T) {
	assert.Equal(t, 3*time.Second, DurationValue("_TEST_DURATION_VALUE"))

	t.Setenv("_TEST_DURATION_VALUE", "250ms")
	assert.Equal(t, 250*time.Millisecond, DurationValue("_TEST_DURATION_VALUE"))

	t.Setenv("_TEST_DURATION_VALUE", "soon")
	assert.Equal(t, 3*time.Second, DurationValue("_TEST_DURATION_VALUE"))
}

func TestTypeMismatchReturnsZero(t *testing.T) {
	// asking for the wrong type never panics
	assert.Equal(t, 0, IntValue("_TEST_STR_VALUE"))
	assert.False(t, BoolValue("_TEST_INT_VALUE"))
	assert.Equal(t, "", StringValue("_TEST_BOOL_VALUE"))
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, "offline", StringValue("HEALTHVIEW_SOURCE"))
	assert.Equal(t, ":8080", StringValue("HEALTHVIEW_LISTEN_ADDR"))
	assert.Equal(t, 5*time.Second, DurationValue("HEALTHVIEW_SHUTDOWN_TIMEOUT"))
}

func TestGetEnvVar(t *testing.T) {
	t.Setenv("_TEST_STR_NEW", "isset")
	assert.Equal(t, "isset", getEnvVar("_TEST_STR_NEW", "fallback"))

	// when no env var exists we should use the fallback value in 2nd arg
	assert.Equal(t, "fallback", getEnvVar("_TEST_STR_MISSING", "fallback"))

	t.Setenv("_TEST_INT_NEW", "32")
	assert.Equal(t, 32, getEnvVar("_TEST_INT_NEW", 1))

	// unsupported fallback types are never converted
	t.Setenv("TEST_UNKNOWN", "2.2")
	assert.Equal(t, 1.1, getEnvVar("TEST_UNKNOWN", 1.1))
}
