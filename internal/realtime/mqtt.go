package realtime

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// MQTT path for displays whose firmware speaks MQTT instead of websockets.
// Each such display gets a broker client subscribed to its command topic and
// a Sender that publishes envelopes there; the registry treats both
// transports identically.

// mqttOptions builds the broker options for one display. Auto-reconnect is
// off: a lost broker connection fires onLost so the caller can drop the
// display's registry entry, the same as a websocket disconnect. The display
// re-attaches through its endpoint when the broker comes back.
func mqttOptions(brokerURL string, deviceID int, onLost func()) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(fmt.Sprintf("display-%d", deviceID))
	opts.SetAutoReconnect(false)
	opts.OnConnect = func(client mqtt.Client) {
		log.Info().Int("device_id", deviceID).Msg("connected to MQTT broker")
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		log.Warn().Err(err).Int("device_id", deviceID).Msg("MQTT connection lost")
		if onLost != nil {
			onLost()
		}
	}
	return opts
}

// DialMQTT connects one client to the broker for a given display.
func DialMQTT(brokerURL string, deviceID int, onLost func()) (mqtt.Client, error) {
	client := mqtt.NewClient(mqttOptions(brokerURL, deviceID, onLost))
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return client, nil
}

// MQTTSender publishes envelopes on a device command topic.
type MQTTSender struct {
	client   mqtt.Client
	deviceID int
}

func NewMQTTSender(client mqtt.Client, deviceID int) *MQTTSender {
	return &MQTTSender{client: client, deviceID: deviceID}
}

func CommandTopic(deviceID int) string {
	return fmt.Sprintf("display/%d/commands", deviceID)
}

// Send publishes without waiting on the token: delivery is at-most-once from
// the registry's point of view, the same as the websocket path.
func (s *MQTTSender) Send(env Envelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		return
	}
	token := s.client.Publish(CommandTopic(s.deviceID), 1, false, payload)
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			log.Warn().Err(err).Int("device_id", s.deviceID).
				Str("event", env.Event).Msg("MQTT publish failed")
		}
	}()
}

// Close disconnects the underlying broker client.
func (s *MQTTSender) Close() {
	s.client.Disconnect(250)
}
