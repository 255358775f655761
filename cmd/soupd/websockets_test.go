package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestWebSockets(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s := makeService(t)
	mux := s.Handler(ctx)
	s.WebSockets(ctx, mux, "localhost")

	ts := httptest.NewServer(mux)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/api"
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	send := func(js string) {
		if err := c.WriteMessage(websocket.TextMessage, []byte(js)); err != nil {
			t.Fatal(err)
		}
	}

	type message struct {
		Op *struct {
			Id     string  `json:"id"`
			Result *result `json:"result"`
			Walked *struct {
				Enabled []string `json:"enabled"`
			} `json:"walked"`
			Err string `json:"err"`
		} `json:"op"`
		Verdict *result `json:"verdict"`
		Updated string  `json:"updated"`
	}

	// await reads until it sees the reply to the op with the given
	// id.  Firehose messages seen along the way are returned too.
	await := func(id string) (*message, []*message) {
		var others []*message
		for i := 0; i < 10; i++ {
			c.SetReadDeadline(time.Now().Add(5 * time.Second))
			_, js, err := c.ReadMessage()
			if err != nil {
				t.Fatal(err)
			}
			var m message
			if err = json.Unmarshal(js, &m); err != nil {
				t.Fatal(err)
			}
			if m.Op != nil && m.Op.Id == id {
				return &m, others
			}
			others = append(others, &m)
		}
		t.Fatalf("no reply for %s", id)
		return nil, nil
	}

	send(`{"id":"1","run":"ab0"}`)
	m, others := await("1")
	if m.Op.Result == nil || m.Op.Result.Holds {
		t.Fatal(string(mustJSON(m)))
	}

	send(`{"id":"2","walk":{"check":"ab0","fire":["b1"]}}`)
	if m, others2 := await("2"); m.Op.Walked == nil || strings.Join(m.Op.Walked.Enabled, ",") != "a1,b2" {
		t.Fatal(string(mustJSON(m)))
	} else {
		others = append(others, others2...)
	}

	send(`not json`)
	m, _ = await("")
	if !strings.HasPrefix(m.Op.Err, "can't parse") {
		t.Fatal(m.Op.Err)
	}

	// The verdict from the run arrives via the firehose, possibly
	// after the reply.
	sawVerdict := false
	for _, o := range others {
		if o.Verdict != nil && o.Verdict.Check == "ab0" {
			sawVerdict = true
		}
	}
	if !sawVerdict {
		send(`{"id":"3","list":true}`)
		_, more := await("3")
		for _, o := range more {
			if o.Verdict != nil && o.Verdict.Check == "ab0" {
				sawVerdict = true
			}
		}
	}
	if !sawVerdict {
		t.Fatal("no verdict on the firehose")
	}
}

func mustJSON(x interface{}) []byte {
	js, err := json.Marshal(x)
	if err != nil {
		panic(err)
	}
	return js
}

func TestWebSocketsUI(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := makeService(t)
	mux := s.Handler(ctx)
	s.WebSockets(ctx, mux, "localhost")

	ts := httptest.NewServer(mux)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/ws/ui")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	bs, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	page := string(bs)
	for _, want := range []string{
		`ws://localhost/ws/api`,
		`send({list: true})`,
		`send({run: c.name})`,
		`send({walk: {check: c.name, fire: fire}})`,
		`send({reload: true})`,
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("missing %s", want)
		}
	}
}
