package devkit

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// Script describes one scripted reply. Err fails the round trip before any
// response exists; BodyErr fails reads of an otherwise valid response body.
type Script struct {
	StatusCode int
	Header     http.Header
	Body       string
	BodyErr    error
	Err        error
}

type RecordedRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   string
	Form   url.Values
}

// ScriptedDoer replays scripts in order, repeating the last one once the
// list is exhausted, and records every request it receives.
type ScriptedDoer struct {
	mu       sync.Mutex
	scripts  []Script
	requests []RecordedRequest
	bodies   []*trackedBody
}

func NewScriptedDoer(scripts ...Script) *ScriptedDoer {
	return &ScriptedDoer{scripts: append([]Script(nil), scripts...)}
}

func (d *ScriptedDoer) Do(req *http.Request) (*http.Response, error) {
	if d == nil {
		return nil, fmt.Errorf("devkit: scripted doer is nil")
	}
	if req == nil {
		return nil, fmt.Errorf("devkit: request is required")
	}
	recorded, err := recordRequest(req)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.requests = append(d.requests, recorded)
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	script := d.scriptFor(len(d.requests) - 1)
	if script.Err != nil {
		return nil, script.Err
	}

	body := &trackedBody{reader: strings.NewReader(script.Body), readErr: script.BodyErr}
	d.bodies = append(d.bodies, body)
	header := http.Header{}
	for key, values := range script.Header {
		header[key] = append([]string(nil), values...)
	}
	statusCode := script.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	return &http.Response{
		Status:     fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode)),
		StatusCode: statusCode,
		Header:     header,
		Body:       body,
		Request:    req,
	}, nil
}

func (d *ScriptedDoer) scriptFor(index int) Script {
	if index < len(d.scripts) {
		return d.scripts[index]
	}
	if len(d.scripts) > 0 {
		return d.scripts[len(d.scripts)-1]
	}
	return Script{StatusCode: http.StatusOK}
}

func (d *ScriptedDoer) Requests() []RecordedRequest {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]RecordedRequest, 0, len(d.requests))
	for _, item := range d.requests {
		out = append(out, cloneRecordedRequest(item))
	}
	return out
}

// OpenBodies reports how many response bodies handed out were never closed.
func (d *ScriptedDoer) OpenBodies() int {
	if d == nil {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	open := 0
	for _, body := range d.bodies {
		if !body.isClosed() {
			open++
		}
	}
	return open
}

func recordRequest(req *http.Request) (RecordedRequest, error) {
	recorded := RecordedRequest{
		Method: req.Method,
		Header: req.Header.Clone(),
		Form:   url.Values{},
	}
	if req.URL != nil {
		recorded.URL = req.URL.String()
	}
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return RecordedRequest{}, fmt.Errorf("devkit: read request body: %w", err)
		}
		recorded.Body = string(data)
	}
	if strings.HasPrefix(req.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		form, err := url.ParseQuery(recorded.Body)
		if err != nil {
			return RecordedRequest{}, fmt.Errorf("devkit: parse form body: %w", err)
		}
		recorded.Form = form
	}
	return recorded, nil
}

func cloneRecordedRequest(in RecordedRequest) RecordedRequest {
	out := RecordedRequest{
		Method: in.Method,
		URL:    in.URL,
		Header: in.Header.Clone(),
		Body:   in.Body,
		Form:   url.Values{},
	}
	for key, values := range in.Form {
		out.Form[key] = append([]string(nil), values...)
	}
	return out
}

type trackedBody struct {
	mu      sync.Mutex
	reader  io.Reader
	readErr error
	closed  bool
}

func (b *trackedBody) Read(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0, fmt.Errorf("devkit: read on closed body")
	}
	if b.readErr != nil {
		return 0, b.readErr
	}
	return b.reader.Read(p)
}

func (b *trackedBody) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

func (b *trackedBody) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}
