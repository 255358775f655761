package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// fakeToken is a completed mqtt.Token.
type fakeToken struct {
	mqtt.Token
	err error
}

func (t *fakeToken) Wait() bool                       { return true }
func (t *fakeToken) WaitTimeout(d time.Duration) bool { return true }
func (t *fakeToken) Error() error                     { return t.err }

type published struct {
	topic   string
	qos     byte
	retain  bool
	payload []byte
}

// fakeClient records publications.  Other methods panic.
type fakeClient struct {
	mqtt.Client
	err error
	pub []published
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.pub = append(c.pub, published{topic, qos, retained, payload.([]byte)})
	return &fakeToken{err: c.err}
}

func TestMQTTPublisher(t *testing.T) {
	ctx := context.Background()
	s := makeService(t)

	client := &fakeClient{}
	p := &MQTTPublisher{
		Client:      client,
		TopicPrefix: "soup/verdicts",
		QoS:         1,
		Timeout:     time.Second,
	}
	s.Publisher = p

	if _, err := s.Run(ctx, "ab0"); err != nil {
		t.Fatal(err)
	}
	if len(client.pub) != 1 {
		t.Fatal(len(client.pub))
	}
	got := client.pub[0]
	if got.topic != "soup/verdicts/ab0" || got.qos != 1 {
		t.Fatalf("%#v", got)
	}

	var x map[string]interface{}
	if err := json.Unmarshal(got.payload, &x); err != nil {
		t.Fatal(err)
	}
	if x["verdict"] != "violated (accept)" || x["holds"] != false || x["states"] == nil {
		t.Fatal(string(got.payload))
	}
	if _, have := x["report"]; have {
		t.Fatal("payload shouldn't carry the report")
	}

	client.err = errors.New("broker unhappy")
	if err := p.Publish(ctx, &Result{Check: "ab0"}); err == nil {
		t.Fatal("should have failed")
	}

	if p.Topic("x") != "soup/verdicts/x" || (&MQTTPublisher{}).Topic("x") != "x" {
		t.Fatal("topic")
	}
}
