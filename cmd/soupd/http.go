package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"

	"golang.org/x/net/netutil"
)

func complain(w http.ResponseWriter, x interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	js, _ := json.Marshal(fmt.Sprintf("%v", x))
	fmt.Fprintf(w, `{"error":%s}`+"\n", js)
}

func reply(w http.ResponseWriter, x interface{}) {
	js, err := json.Marshal(x)
	if err != nil {
		complain(w, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err = w.Write(js); err != nil {
		log.Printf("Service.HTTPServer warning on Write(): %v", err)
	}
}

func status(err error) int {
	var ne *NotEnabled
	switch {
	case errors.Is(err, NotFound):
		return http.StatusNotFound
	case errors.Is(err, Busy):
		return http.StatusConflict
	case errors.As(err, &ne):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// Handler returns the HTTP API.
//
//	GET  /checks                   summaries of all checks
//	GET  /checks/NAME              summary of one check
//	POST /checks/NAME/run          run the check now
//	PUT  /checks/NAME/model        replace the model's source
//	GET  /checks/NAME/walk?fire=.. fire comma-separated pieces
//	POST /reload                   reread the check directory
//	POST /api                      an Op as JSON
func (s *Service) Handler(ctx context.Context) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/checks", func(w http.ResponseWriter, r *http.Request) {
		reply(w, s.Summaries())
	})

	mux.HandleFunc("/checks/", func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/checks/"), "/")
		name := parts[0]
		what := ""
		if 1 < len(parts) {
			what = parts[1]
		}

		switch {
		case what == "" && r.Method == http.MethodGet:
			sum, err := s.Summary(name)
			if err != nil {
				complain(w, err, status(err))
				return
			}
			reply(w, sum)

		case what == "run" && r.Method == http.MethodPost:
			res, err := s.Run(ctx, name)
			if err != nil {
				complain(w, err, status(err))
				return
			}
			reply(w, res)

		case what == "model" && r.Method == http.MethodPut:
			src, err := io.ReadAll(r.Body)
			if err != nil {
				complain(w, err, http.StatusBadRequest)
				return
			}
			if err = s.SetModel(name, string(src)); err != nil {
				complain(w, err, status(err))
				return
			}
			sum, err := s.Summary(name)
			if err != nil {
				complain(w, err, status(err))
				return
			}
			reply(w, sum)

		case what == "walk" && r.Method == http.MethodGet:
			var fire []string
			if f := r.URL.Query().Get("fire"); f != "" {
				fire = strings.Split(f, ",")
			}
			walked, err := s.Walk(r.Context(), name, fire)
			if err != nil {
				complain(w, err, status(err))
				return
			}
			reply(w, walked)

		default:
			complain(w, "unsupported "+r.Method+" "+r.URL.Path, http.StatusNotFound)
		}
	})

	mux.HandleFunc("/reload", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			complain(w, "use POST", http.StatusMethodNotAllowed)
			return
		}
		if err := s.Load(); err != nil {
			complain(w, err, http.StatusInternalServerError)
			return
		}
		reply(w, s.Summaries())
	})

	mux.HandleFunc("/api", func(w http.ResponseWriter, r *http.Request) {
		js, err := io.ReadAll(r.Body)
		if err != nil {
			complain(w, err, http.StatusBadRequest)
			return
		}
		if err := r.Body.Close(); err != nil {
			log.Printf("Service.HTTPServer warning on Body.Close(): %v", err)
		}

		var op Op
		if err := json.Unmarshal(js, &op); err != nil {
			complain(w, err, http.StatusBadRequest)
			return
		}
		op.Do(ctx, s)
		reply(w, &op)
	})

	return mux
}

// HTTPServer serves mux on the port until ctx is done.  When
// maxConns is positive, at most that many connections are served at
// once.
func (s *Service) HTTPServer(ctx context.Context, port string, maxConns int, mux *http.ServeMux) error {
	log.Printf("Service.HTTPServer starting on %s", port)

	l, err := net.Listen("tcp", port)
	if err != nil {
		return err
	}
	if 0 < maxConns {
		l = netutil.LimitListener(l, maxConns)
	}

	srv := &http.Server{
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		if err := srv.Close(); err != nil {
			log.Printf("Service.HTTPServer warning on Close(): %v", err)
		}
	}()

	if err = srv.Serve(l); err == http.ErrServerClosed {
		return nil
	}
	return err
}
