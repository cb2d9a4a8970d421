package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHealthStatusHealthy(t *testing.T) {
	now := time.Now()

	assert.False(t, HealthStatus{}.Healthy(), "zero snapshot means nothing was checked yet")
	assert.True(t, HealthStatus{Mongo: true, Redis: []bool{true, true}, CheckedAt: now}.Healthy())
	assert.True(t, HealthStatus{Mongo: true, CheckedAt: now}.Healthy(), "no redis clients configured")
	assert.False(t, HealthStatus{Mongo: false, Redis: []bool{true}, CheckedAt: now}.Healthy())
	assert.False(t, HealthStatus{Mongo: true, Redis: []bool{true, false}, CheckedAt: now}.Healthy())
}
