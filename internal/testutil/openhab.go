package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Received is a command posted to the fake server.
type Received struct {
	Item  string
	Value string
}

// OpenHAB is an in-process stand-in for the openHAB REST API: sitemaps,
// sitemap event subscriptions and item commands.
type OpenHAB struct {
	Server *httptest.Server
	// LocationInBody moves the subscription location from the Location header
	// into the JSON body, as some server versions do.
	LocationInBody bool

	mu            sync.Mutex
	sitemaps      map[string][]byte
	commands      []Received
	streams       map[string]chan string
	subscriptions int
	connected     int
	done          chan struct{}
}

// NewOpenHAB starts a fake server that is shut down when the test ends.
func NewOpenHAB(t *testing.T) *OpenHAB {
	t.Helper()
	o := &OpenHAB{
		sitemaps: make(map[string][]byte),
		streams:  make(map[string]chan string),
		done:     make(chan struct{}),
	}
	r := mux.NewRouter()
	r.HandleFunc("/rest/sitemaps/events/subscribe", o.subscribe).Methods(http.MethodPost)
	r.HandleFunc("/rest/sitemaps/events/{id}", o.events).Methods(http.MethodGet)
	r.HandleFunc("/rest/sitemaps/{name}", o.sitemap).Methods(http.MethodGet)
	r.HandleFunc("/rest/items/{item}", o.command).Methods(http.MethodPost)
	o.Server = httptest.NewServer(r)
	t.Cleanup(func() {
		close(o.done)
		o.Server.Close()
	})
	return o
}

// URL returns the REST root of the fake server.
func (o *OpenHAB) URL() string { return o.Server.URL + "/rest" }

// ItemLink returns the link an item's commands are posted to.
func (o *OpenHAB) ItemLink(item string) string { return o.URL() + "/items/" + item }

// SetSitemap serves doc for the named sitemap.
func (o *OpenHAB) SetSitemap(name string, doc []byte) {
	o.mu.Lock()
	o.sitemaps[name] = append([]byte(nil), doc...)
	o.mu.Unlock()
}

// Push queues one event payload on every subscription.
func (o *OpenHAB) Push(payload string) {
	o.mu.Lock()
	streams := make([]chan string, 0, len(o.streams))
	for _, ch := range o.streams {
		streams = append(streams, ch)
	}
	o.mu.Unlock()
	for _, ch := range streams {
		select {
		case ch <- payload:
		case <-o.done:
		}
	}
}

// Commands returns every command received so far.
func (o *OpenHAB) Commands() []Received {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Received(nil), o.commands...)
}

// Subscriptions returns the number of subscribe requests served.
func (o *OpenHAB) Subscriptions() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.subscriptions
}

// WaitStreams blocks until n event streams are connected or timeout elapses.
func (o *OpenHAB) WaitStreams(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		o.mu.Lock()
		open := o.connected
		o.mu.Unlock()
		if open >= n {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// WaitCommands blocks until n commands arrived or timeout elapses.
func (o *OpenHAB) WaitCommands(n int, timeout time.Duration) []Received {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if got := o.Commands(); len(got) >= n {
			return got
		}
		time.Sleep(10 * time.Millisecond)
	}
	return o.Commands()
}

func (o *OpenHAB) sitemap(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	o.mu.Lock()
	doc, ok := o.sitemaps[name]
	o.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(doc)
}

func (o *OpenHAB) subscribe(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	location := o.Server.URL + "/rest/sitemaps/events/" + id
	o.mu.Lock()
	o.streams[id] = make(chan string, 16)
	o.subscriptions++
	inBody := o.LocationInBody
	o.mu.Unlock()

	body := map[string]interface{}{"status": "CREATED"}
	if inBody {
		body["context"] = map[string]interface{}{
			"headers": map[string]interface{}{"Location": []string{location}},
		}
	} else {
		w.Header().Set("Location", location)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(body)
}

func (o *OpenHAB) events(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	o.mu.Lock()
	ch, ok := o.streams[id]
	o.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	if r.URL.Query().Get("sitemap") == "" {
		http.Error(w, "missing sitemap", http.StatusBadRequest)
		return
	}
	o.mu.Lock()
	o.connected++
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		delete(o.streams, id)
		o.connected--
		o.mu.Unlock()
	}()

	flusher, _ := w.(http.Flusher)
	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)
	if flusher != nil {
		flusher.Flush()
	}
	for {
		select {
		case payload := <-ch:
			fmt.Fprintf(w, "event: event\ndata: %s\n\n", payload)
			if flusher != nil {
				flusher.Flush()
			}
		case <-r.Context().Done():
			return
		case <-o.done:
			return
		}
	}
}

func (o *OpenHAB) command(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	o.mu.Lock()
	o.commands = append(o.commands, Received{Item: mux.Vars(r)["item"], Value: string(data)})
	o.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}
