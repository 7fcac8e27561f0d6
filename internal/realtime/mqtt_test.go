package realtime

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTopic(t *testing.T) {
	assert.Equal(t, "display/7/commands", CommandTopic(7))
}

func TestMQTTOptions_ConnectionLostDropsRegistration(t *testing.T) {
	reg := NewRegistry()
	deviceID := 5
	reg.Register(&Connection{
		ID:          "mqtt-5",
		MasjidID:    1,
		DeviceID:    &deviceID,
		ConnectedAt: time.Now(),
		Sender:      &captureSender{},
	})
	require.True(t, reg.IsDeviceConnected(5))

	opts := mqttOptions("tcp://127.0.0.1:1883", 5, func() {
		reg.Unregister("mqtt-5")
	})
	opts.OnConnectionLost(nil, errors.New("broker gone"))

	assert.False(t, reg.IsDeviceConnected(5))
	assert.Equal(t, 0, reg.ConnectedCount(1))
}

func TestMQTTOptions_ClientIdentity(t *testing.T) {
	opts := mqttOptions("tcp://broker:1883", 12, nil)

	assert.Equal(t, "display-12", opts.ClientID)
	assert.False(t, opts.AutoReconnect, "lost connections unregister instead of silently reconnecting")
	// nil callback must not panic
	opts.OnConnectionLost(nil, errors.New("broker gone"))
}
