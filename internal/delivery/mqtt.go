package delivery

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// mqttTimeout bounds connect and publish waits.
const mqttTimeout = 2 * time.Second

// MQTTSink publishes records to an MQTT topic for room-automation style
// consumers (light dimmers, screen switchers) that listen for presentation
// gestures.
type MQTTSink struct {
	client mqtt.Client
	topic  string
}

// NewMQTTSink connects to the broker and returns a sink publishing to topic.
func NewMQTTSink(brokerURL, clientID, topic string) (*MQTTSink, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(mqttTimeout)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(mqttTimeout) {
		return nil, fmt.Errorf("connect %s: timeout", brokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect %s: %w", brokerURL, err)
	}

	return &MQTTSink{client: client, topic: topic}, nil
}

func (s *MQTTSink) Name() string { return "mqtt" }

func (s *MQTTSink) Deliver(rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	token := s.client.Publish(s.topic, 0, false, payload)
	if !token.WaitTimeout(mqttTimeout) {
		return fmt.Errorf("publish to %s: timeout", s.topic)
	}
	return token.Error()
}

func (s *MQTTSink) Close() error {
	s.client.Disconnect(uint(mqttTimeout / time.Millisecond))
	return nil
}
