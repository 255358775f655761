package main

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// WebSockets adds the websocket API to the mux.
//
// A client sends Ops as JSON and gets each Op back with its results.
// Every client also sees a firehose of verdicts and model updates
// from the entire service.
func (s *Service) WebSockets(ctx context.Context, mux *http.ServeMux, host string) {
	s.firehose = make(chan interface{}, 1024)

	var upgrader = websocket.Upgrader{} // use default options

	conns := sync.Map{}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case x := <-s.firehose:
				conns.Range(func(k, v interface{}) bool {
					c := v.(chan interface{})
					select {
					case c <- x:
					default:
						log.Printf("%v firehose blocked", k)
					}
					return true
				})
			}
		}
	}()

	api := func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error", err)
			return
		}
		defer c.Close()

		// All writes go through out since a websocket.Conn
		// supports only one concurrent writer.
		out := make(chan interface{}, 32)
		done := make(chan bool)
		defer close(done)

		id := c.RemoteAddr().String()
		conns.Store(id, out)
		defer conns.Delete(id)

		go func() {
			for {
				select {
				case <-done:
					return
				case <-ctx.Done():
					return
				case x := <-out:
					js, err := json.Marshal(&x)
					if err != nil {
						log.Printf("websocket Marshal error %v on %#v", err, x)
						continue
					}
					if err = c.WriteMessage(websocket.TextMessage, js); err != nil {
						log.Println("websocket write:", err)
					}
				}
			}
		}()

		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("read error", err)
				break
			}

			var op Op
			if err := json.Unmarshal(message, &op); err != nil {
				op.Err = fmt.Sprintf("can't parse: %v", err)
			} else {
				op.Do(ctx, s)
			}
			select {
			case out <- map[string]interface{}{"op": &op}:
			case <-ctx.Done():
				return
			}
		}
	}

	// The UI lists the checks and sends Ops for them.  Verdicts
	// from the firehose show up as they arrive.
	var uiTemplate = template.Must(template.New("").Parse(`
<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>soupd</title>
<style>
body { margin: 2em; font-family: sans-serif }
td, th { padding: 0.2em 1em; text-align: left }
.holds { color: green }
.violated { color: red }
#log { font-family: monospace; white-space: pre-wrap }
</style>
<script>
var ws, seq = 0;

function send(op) {
    op.id = "ui-" + (++seq);
    ws.send(JSON.stringify(op));
}

function cell(tr, text, cls) {
    var td = document.createElement("td");
    td.textContent = text || "";
    if (cls) { td.className = cls; }
    tr.appendChild(td);
    return td;
}

function verdictClass(v) {
    return v && v.indexOf("violated") == 0 ? "violated" : (v == "holds" ? "holds" : "");
}

function showChecks(checks) {
    var body = document.getElementById("checks");
    body.innerHTML = "";
    (checks || []).forEach(function(c) {
        var tr = document.createElement("tr");
        cell(tr, c.name);
        cell(tr, c.schedule);
        cell(tr, c.next);
        var v = c.last ? c.last.verdict : "";
        cell(tr, v, verdictClass(v));
        var run = document.createElement("button");
        run.textContent = "run";
        run.onclick = function() { send({run: c.name}); };
        cell(tr).appendChild(run);
        var walk = document.createElement("button");
        walk.textContent = "walk";
        walk.onclick = function() {
            var fire = document.getElementById("fire").value.split(/[ ,]+/).filter(function(x) { return x; });
            send({walk: {check: c.name, fire: fire}});
        };
        cell(tr).appendChild(walk);
        body.appendChild(tr);
    });
}

function log(text) {
    var d = document.createElement("div");
    d.textContent = text;
    var out = document.getElementById("log");
    out.insertBefore(d, out.firstChild);
}

window.addEventListener("load", function() {
    ws = new WebSocket("ws://{{.}}/ws/api");
    ws.onopen = function() { send({list: true}); };
    ws.onclose = function() { log("closed"); };
    ws.onmessage = function(evt) {
        var msg = JSON.parse(evt.data);
        if (msg.op) {
            var op = msg.op;
            if (op.err) { log(op.id + " error: " + op.err); }
            if (op.checks) { showChecks(op.checks); }
            if (op.walked) { log(op.id + " walked " + op.walked.check + ": " + JSON.stringify(op.walked.bindings) + " enabled " + JSON.stringify(op.walked.enabled)); }
            if (op.result) { send({list: true}); }
        } else if (msg.verdict) {
            log(msg.verdict.check + ": " + msg.verdict.verdict + " (" + msg.verdict.elapsed + ")");
        } else if (msg.updated) {
            log(msg.updated + " updated");
            send({list: true});
        }
    };
    document.getElementById("reload").onclick = function() { send({reload: true}); };
});
</script>
</head>
<body>
<table>
<thead><tr><th>check</th><th>schedule</th><th>next</th><th>last</th><th></th><th></th></tr></thead>
<tbody id="checks"></tbody>
</table>
<p>fire: <input id="fire" size="40" type="text" placeholder="piece names for walk"> <button id="reload">reload</button></p>
<hr>
<div id="log"></div>
</body>
</html>
`))

	ui := func(w http.ResponseWriter, r *http.Request) {
		uiTemplate.Execute(w, host)
	}

	mux.HandleFunc("/ws/api", api)
	mux.HandleFunc("/ws/ui", ui)

	log.Printf("Service.HTTPServer (%s) has Websockets", host)
}
