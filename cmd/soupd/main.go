package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/Comcast/soup/interpreters"
	"github.com/Comcast/soup/util"
)

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.LUTC)
}

func main() {

	var (
		httpPort   = flag.String("h", ":8080", "HTTP service port")
		httpDir    = flag.String("f", "", "optional directory that the HTTP service will serve")
		checkDir   = flag.String("d", "checks", "checks directory")
		websockets = flag.Bool("w", false, "start Web sockets service")
		maxConns   = flag.Int("max-conns", 64, "maximum concurrent HTTP connections (0 for no limit)")
		timeout    = flag.Duration("t", time.Minute, "timeout for each check run")
		runAll     = flag.Bool("run", false, "run every check at startup")
		verbose    = flag.Bool("v", false, "verbose search logging")

		broker   = flag.String("mqtt-broker", "", "optional MQTT broker (e.g. tcp://localhost:1883) for verdicts")
		clientId = flag.String("mqtt-client-id", "soupd", "MQTT client id")
		topic    = flag.String("mqtt-topic", "soup/verdicts", "MQTT topic prefix for verdicts")
	)

	flag.Parse()

	util.Logging = *verbose

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	s := NewService(*checkDir, interpreters.Standard())
	s.Timeout = *timeout
	if err := s.Load(); err != nil {
		log.Fatal(err)
	}

	if *broker != "" {
		p := NewMQTTPublisher(*broker, *clientId, *topic)
		if err := p.Start(ctx); err != nil {
			log.Fatal(err)
		}
		defer p.Stop()
		s.Publisher = p
	}

	n, err := s.Schedule(ctx)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("%d checks scheduled", n)

	mux := s.Handler(ctx)
	if *websockets {
		s.WebSockets(ctx, mux, "localhost"+*httpPort)
	}
	if *httpDir != "" {
		fs := http.FileServer(http.Dir(*httpDir))
		mux.Handle("/f/", http.StripPrefix("/f", fs))
	}

	if *runAll {
		go func() {
			for _, sum := range s.Summaries() {
				if _, err := s.Run(ctx, sum.Name); err != nil {
					log.Printf("run %s: %s", sum.Name, err)
				}
			}
		}()
	}

	if err = s.HTTPServer(ctx, *httpPort, *maxConns, mux); err != nil {
		log.Fatal(err)
	}

	log.Printf("main terminating")
}
