package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetMetrics_InitialState(t *testing.T) {
	publisher := NewRegistrationPublisher(nil)

	metrics := publisher.GetMetrics()

	assert.Equal(t, int64(0), metrics["messages_published"])
	assert.Equal(t, int64(0), metrics["messages_failed"])
	assert.Equal(t, FarmQueue, metrics["queue"])
	assert.NotNil(t, metrics["last_publish_time"])
}

func TestHealthCheck_NoConnection(t *testing.T) {
	publisher := NewRegistrationPublisher(nil)

	status := publisher.HealthCheck()

	assert.False(t, status.IsHealthy)
	assert.Equal(t, int64(0), status.MessagesPublished)
	assert.Equal(t, int64(0), status.MessagesFailed)
	assert.Equal(t, FarmQueue, status.Queue)
}
