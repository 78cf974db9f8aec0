package view

import (
	"net/http"
	"sync"
)

// Rendered is one call captured by a Recorder.
type Rendered struct {
	Status int
	Name   string
	Data   any
}

// Recorder is a Renderer that keeps what it was asked to render instead of
// producing HTML, so handler tests can inspect view data.
type Recorder struct {
	mu    sync.Mutex
	calls []Rendered
}

func (r *Recorder) Render(w http.ResponseWriter, status int, name string, data any) {
	r.mu.Lock()
	r.calls = append(r.calls, Rendered{Status: status, Name: name, Data: data})
	r.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(name))
}

// Last returns the most recent render, or a zero value if none happened.
func (r *Recorder) Last() Rendered {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return Rendered{}
	}
	return r.calls[len(r.calls)-1]
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}
