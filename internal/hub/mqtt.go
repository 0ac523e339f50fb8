package hub

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// MQTTBridge mirrors hub events onto per-screen MQTT topics so devices
// that cannot hold a WebSocket open (kiosk hardware behind NAT, sleepy
// Android boxes) still get push updates. The topics carry the same JSON
// payload as the WebSocket channel.
type MQTTBridge struct {
	client mqtt.Client
}

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Warn().Err(err).Msg("MQTT connection lost")
}

// NewMQTTBridge connects to the broker; the paho client reconnects on
// its own afterwards.
func NewMQTTBridge(brokerURL, clientID string) (*MQTTBridge, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return &MQTTBridge{client: client}, nil
}

var _ Mirror = (*MQTTBridge)(nil)

// Mirror publishes the event payload to screens/<id>/events. Publish
// failures are logged and dropped; MQTT delivery is as best-effort as
// the WebSocket path.
func (b *MQTTBridge) Mirror(ev Event, payload []byte) {
	topic := fmt.Sprintf("screens/%s/events", ev.ScreenID)
	token := b.client.Publish(topic, 1, false, payload)
	token.Wait()
	if token.Error() != nil {
		log.Warn().Err(token.Error()).Str("topic", topic).Msg("failed to mirror event to MQTT")
	}
}

// Close disconnects from the broker.
func (b *MQTTBridge) Close() {
	b.client.Disconnect(250)
}
