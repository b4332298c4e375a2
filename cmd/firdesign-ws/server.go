package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	firdesign "github.com/tphakala/go-fir-designer"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingEvery  = (wsPongWait * 9) / 10
	wsReadLimit  = 1 << 20
	wsWriteQueue = 8
)

// allowAnyOrigin in the origin list disables the origin check.
const allowAnyOrigin = "*"

// newUpgrader accepts browser connections from the given origins. With no
// origins only same-host pages may connect; clients that send no Origin
// header are always accepted.
func newUpgrader(origins []string) *websocket.Upgrader {
	u := &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if len(origins) == 0 {
		return u
	}
	u.CheckOrigin = func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range origins {
			if o == allowAnyOrigin || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
	return u
}

func newMux(verbose bool, origins ...string) *http.ServeMux {
	upgrader := newUpgrader(origins)
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		handleDesignWS(w, r, upgrader, verbose)
	})
	return mux
}

// handleDesignWS reads design requests until the peer goes away. Designs run
// one at a time on the reading goroutine; a separate writer sends replies
// and keep-alive pings.
func handleDesignWS(w http.ResponseWriter, r *http.Request, upgrader *websocket.Upgrader, verbose bool) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("design ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	if verbose {
		log.Printf("design ws connected: %s", r.RemoteAddr)
		defer log.Printf("design ws closed: %s", r.RemoteAddr)
	}

	conn.SetReadLimit(wsReadLimit)
	if err := conn.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		log.Printf("design ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	writeCh := make(chan []byte, wsWriteQueue)
	done := make(chan struct{})
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(wsPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
					log.Printf("design ws write failed: %v", err)
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()
	defer func() {
		close(done)
		<-writerDone
	}()

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("design ws read failed: %v", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		start := time.Now()
		reply, err := firdesign.HandleMessage(data)
		if err != nil {
			log.Printf("design request failed: %v", err)
			reply = firdesign.ErrorMessage(err)
		} else if verbose {
			log.Printf("design request done in %v", time.Since(start))
		}

		select {
		case writeCh <- reply:
		case <-writerDone:
			return
		}
	}
}
