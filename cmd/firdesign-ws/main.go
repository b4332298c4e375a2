// Command firdesign-ws serves the filter design message protocol over a
// WebSocket, so a browser front end can run designs off its main thread.
//
// Usage:
//
//	firdesign-ws -port :8080
//	PORT=9000 firdesign-ws
//	firdesign-ws -origins https://designer.example.com
//
// Every text message received on /ws is one "filter design request" and is
// answered with exactly one "filter object" or "error" message.
package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort       = ":8080"
	readHeaderTimeout = 10 * time.Second
)

func main() {
	port := flag.String("port", defaultPort, "server address")
	verbose := flag.Bool("v", false, "log every request")
	origins := flag.String("origins", "", "comma-separated browser origins allowed to connect (\"*\" for any; default same host)")
	flag.Parse()

	_ = godotenv.Load()
	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}
	if envOrigins := os.Getenv("FIRDESIGN_ORIGINS"); envOrigins != "" {
		*origins = envOrigins
	}

	srv := &http.Server{
		Addr:              *port,
		Handler:           newMux(*verbose, splitOrigins(*origins)...),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	log.Printf("firdesign-ws listening on %s", *port)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func splitOrigins(list string) []string {
	var origins []string
	for _, o := range strings.Split(list, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
