package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("BI_STRING", "  grpc ")
	t.Setenv("BI_BLANK", "   ")

	assert.Equal(t, "grpc", GetEnvString("BI_STRING", "noop"))
	assert.Equal(t, "noop", GetEnvString("BI_BLANK", "noop"))
	assert.Equal(t, "noop", GetEnvString("BI_UNSET", "noop"))
}

func TestGetEnvNumbers(t *testing.T) {
	tests := []struct {
		name  string
		value string
		check func(t *testing.T)
	}{
		{name: "int", value: "2000", check: func(t *testing.T) { assert.Equal(t, 2000, GetEnvInt("BI_VALUE", 1000)) }},
		{name: "int invalid", value: "1k", check: func(t *testing.T) { assert.Equal(t, 1000, GetEnvInt("BI_VALUE", 1000)) }},
		{name: "int64", value: "20971520", check: func(t *testing.T) { assert.Equal(t, int64(20<<20), GetEnvInt64("BI_VALUE", 10<<20)) }},
		{name: "int64 invalid", value: "10MB", check: func(t *testing.T) { assert.Equal(t, int64(10<<20), GetEnvInt64("BI_VALUE", 10<<20)) }},
		{name: "float", value: "0.5", check: func(t *testing.T) { assert.InDelta(t, 0.5, GetEnvFloat("BI_VALUE", 2), 1e-9) }},
		{name: "float invalid", value: "fast", check: func(t *testing.T) { assert.InDelta(t, 2.0, GetEnvFloat("BI_VALUE", 2), 1e-9) }},
		{name: "duration", value: "1m30s", check: func(t *testing.T) { assert.Equal(t, 90*time.Second, GetEnvDuration("BI_VALUE", time.Second)) }},
		{name: "duration invalid", value: "90", check: func(t *testing.T) { assert.Equal(t, time.Second, GetEnvDuration("BI_VALUE", time.Second)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BI_VALUE", tt.value)
			tt.check(t)
		})
	}
}

func TestValidateDurations(t *testing.T) {
	assert.NoError(t, ValidatePositiveDuration(time.Second))
	assert.Error(t, ValidatePositiveDuration(0))

	assert.NoError(t, ValidateNonNegativeDuration(0))
	assert.Error(t, ValidateNonNegativeDuration(-time.Second))

	assert.NoError(t, ValidateDurationRange(5*time.Minute, time.Second, time.Hour))
	assert.Error(t, ValidateDurationRange(500*time.Millisecond, time.Second, time.Hour))
	assert.Error(t, ValidateDurationRange(2*time.Hour, time.Second, time.Hour))
}
