package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetDuration(t *testing.T) {
	fallback := time.Minute
	for _, tc := range []struct {
		value string
		want  time.Duration
	}{
		{"", fallback},
		{"7d", 7 * 24 * time.Hour},
		{"36h", 36 * time.Hour},
		{"90s", 90 * time.Second},
		{"0d", fallback},
		{"-5m", fallback},
		{"soon", fallback},
	} {
		t.Setenv("TEST_DURATION", tc.value)
		assert.Equal(t, tc.want, getDuration("TEST_DURATION", fallback), "value %q", tc.value)
	}
}

func TestGetBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "false")
	assert.False(t, getBool("TEST_BOOL", true))
	t.Setenv("TEST_BOOL", "maybe")
	assert.True(t, getBool("TEST_BOOL", true))
	assert.True(t, getBool("TEST_BOOL_UNSET", true))
}

func TestValidate(t *testing.T) {
	cfg := &Config{JWTSecret: "s", DatabaseURL: "postgres://", DBDriver: "postgres"}
	assert.NoError(t, cfg.Validate())

	cfg.DBDriver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = &Config{DatabaseURL: "x", DBDriver: "sqlite"}
	assert.EqualError(t, cfg.Validate(), "JWT_SECRET is required")
}
