// Package gtranstest provides a fake batchexecute endpoint and builders for
// the reply bodies it returns.
package gtranstest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
)

const rpcID = "MkEWBc"

// Part is one translated segment of a Payload.
type Part struct {
	Text       string
	Candidates []string
}

// Payload describes the inner payload of a reply. Empty strings are encoded
// as null.
type Payload struct {
	Parts               []Part
	ShouldSpace         bool
	Source              string // reported at [2]
	SourceFallback      string // reported at [0][2]
	Pronunciation       string // reported at [1][0][0][1]
	OriginPronunciation string // reported at [0][0]
}

// JSON renders the payload in the endpoint's position-indexed shape.
func (p Payload) JSON() string {
	parts := make([]any, len(p.Parts))
	for i, part := range p.Parts {
		candidates := make([]any, len(part.Candidates))
		for j, c := range part.Candidates {
			candidates[j] = c
		}
		parts[i] = []any{part.Text, candidates}
	}

	tree := []any{
		[]any{nullable(p.OriginPronunciation), nil, nullable(p.SourceFallback), nil},
		[]any{
			[]any{
				[]any{nil, nullable(p.Pronunciation), nil, p.ShouldSpace, nil, parts},
			},
			nullable(p.Source),
		},
		nullable(p.Source),
	}

	data, _ := json.Marshal(tree)
	return string(data)
}

// Body wraps an inner payload into a complete reply body: the anti-XSSI
// prefix, the length-prefixed RPC line and the trailing status lines.
func Body(payload string) string {
	line := ReplyLine(payload)
	tail := `[["e",4,null,null,` + fmt.Sprint(len(line)) + `]]`
	return ")]}'\n\n" +
		fmt.Sprintf("%d\n%s\n", len(line), line) +
		fmt.Sprintf("%d\n%s\n", len(tail), tail)
}

// ReplyLine renders the single line carrying the RPC reply.
func ReplyLine(payload string) string {
	encoded, _ := json.Marshal(payload)
	return `[["wrb.fr","` + rpcID + `",` + string(encoded) + `,null,null,null,"generic"],["di",38],["af.httprm",37,"-4196557207585836390",2]]`
}

// Request is a translate call received by a Server.
type Request struct {
	Text   string
	Src    string
	Dest   string
	Query  url.Values
	Header http.Header
}

// HandlerFunc answers a translate call with a status code and a reply body.
type HandlerFunc func(req Request) (status int, body string)

// Server is a fake batchexecute endpoint.
type Server struct {
	*httptest.Server

	handler  HandlerFunc
	mu       sync.Mutex
	requests []Request
}

// NewServer starts a fake endpoint answering with handler.
// Callers must Close it.
func NewServer(handler HandlerFunc) *Server {
	s := &Server{handler: handler}
	mux := http.NewServeMux()
	mux.HandleFunc("/_/TranslateWebserverUi/data/batchexecute", s.serve)
	s.Server = httptest.NewServer(mux)
	return s
}

// Requests returns the calls received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req, err := parseRequest(r.PostForm.Get("f.req"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.Query = r.URL.Query()
	req.Header = r.Header.Clone()

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	status, body := s.handler(req)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func parseRequest(freq string) (Request, error) {
	var outer [][][]any
	if err := json.Unmarshal([]byte(freq), &outer); err != nil {
		return Request{}, fmt.Errorf("f.req envelope: %w", err)
	}
	if len(outer) == 0 || len(outer[0]) == 0 || len(outer[0][0]) < 2 {
		return Request{}, fmt.Errorf("f.req envelope: unexpected shape")
	}
	inner, ok := outer[0][0][1].(string)
	if !ok {
		return Request{}, fmt.Errorf("f.req envelope: request is not a string")
	}

	var req [][]any
	if err := json.Unmarshal([]byte(inner), &req); err != nil {
		return Request{}, fmt.Errorf("f.req request: %w", err)
	}
	if len(req) == 0 || len(req[0]) < 3 {
		return Request{}, fmt.Errorf("f.req request: unexpected shape")
	}

	text, _ := req[0][0].(string)
	src, _ := req[0][1].(string)
	dest, _ := req[0][2].(string)
	return Request{Text: text, Src: src, Dest: dest}, nil
}

// Dictionary answers by looking the text up in words. Unknown texts come back
// bracketed. detected is reported as the source language when the request
// asks for auto detection.
func Dictionary(words map[string]string, detected string) HandlerFunc {
	return func(req Request) (int, string) {
		translated, ok := words[req.Text]
		if !ok {
			translated = "[" + req.Text + "]"
		}

		p := Payload{ShouldSpace: true}
		for _, word := range strings.Fields(translated) {
			p.Parts = append(p.Parts, Part{Text: word})
		}
		if len(p.Parts) == 0 {
			p.Parts = []Part{{Text: translated}}
		}
		if req.Src == "auto" {
			p.Source = detected
		}

		return http.StatusOK, Body(p.JSON())
	}
}

// Status answers every call with an empty body and the given status.
func Status(code int) HandlerFunc {
	return func(Request) (int, string) {
		return code, ""
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
