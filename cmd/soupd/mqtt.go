package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTPublisher publishes Results to an MQTT broker.
//
// Each Result goes to TopicPrefix/CHECK as JSON without the report's
// counterexample.
type MQTTPublisher struct {
	Client      mqtt.Client
	TopicPrefix string
	QoS         byte
	Retain      bool
	Timeout     time.Duration
	Quiesce     uint
}

// NewMQTTPublisher makes a publisher for the broker (for example
// "tcp://localhost:1883").  Call Start to connect.
func NewMQTTPublisher(broker, clientId, topicPrefix string) *MQTTPublisher {
	mqtt.ERROR = log.New(os.Stderr, "mqtt.error ", 0)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientId)
	opts.SetKeepAlive(10 * time.Second)
	opts.AutoReconnect = true
	opts.CleanSession = true

	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		log.Printf("MQTT connection lost: %v", err)
	}

	return &MQTTPublisher{
		Client:      mqtt.NewClient(opts),
		TopicPrefix: topicPrefix,
		QoS:         1,
		Retain:      true,
		Timeout:     5 * time.Second,
		Quiesce:     250,
	}
}

// Start connects to the broker.
func (p *MQTTPublisher) Start(ctx context.Context) error {
	log.Printf("Attempting to connect to broker")
	if token := p.Client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("Connected to broker")
	return nil
}

// Stop disconnects from the broker.
func (p *MQTTPublisher) Stop() {
	log.Printf("Disconnecting")
	p.Client.Disconnect(p.Quiesce)
}

// Topic returns the topic for the check's verdicts.
func (p *MQTTPublisher) Topic(check string) string {
	if p.TopicPrefix == "" {
		return check
	}
	return p.TopicPrefix + "/" + check
}

// payload is a Result with only the report's counts.
func payload(r *Result) ([]byte, error) {
	x := map[string]interface{}{
		"check":   r.Check,
		"verdict": r.Verdict,
		"holds":   r.Holds,
		"at":      r.At,
		"elapsed": r.Elapsed,
	}
	if r.Err != "" {
		x["err"] = r.Err
	}
	if r.Report != nil {
		x["states"] = r.Report.States
		x["transitions"] = r.Report.Transitions
		x["stoppedBecause"] = r.Report.StoppedBecause
	}
	return json.Marshal(&x)
}

// Publish implements Publisher.
func (p *MQTTPublisher) Publish(ctx context.Context, r *Result) error {
	js, err := payload(r)
	if err != nil {
		return err
	}
	token := p.Client.Publish(p.Topic(r.Check), p.QoS, p.Retain, js)
	if !token.WaitTimeout(p.Timeout) {
		return fmt.Errorf("publish to %s timed out", p.Topic(r.Check))
	}
	return token.Error()
}
