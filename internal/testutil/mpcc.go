package testutil

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// NodeModel is a typical model description with two required fields.
const NodeModel = `{
  "endpoint": "nodes/",
  "fields": {
    "id": {"required": false, "type": "integer"},
    "hostname": {"required": true, "type": "string"},
    "systemimage": {"required": true, "type": "string"},
    "comment": {"required": false, "type": "string"}
  }
}`

// ImageModel is a model whose only field is optional.
const ImageModel = `{
  "endpoint": "systemimages/",
  "fields": {
    "name": {"required": false, "type": "string"}
  }
}`

// RecordedRequest is one request seen by the FakeService.
type RecordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     string
}

type cannedResponse struct {
	status int
	body   string
}

// FakeService is an httptest server imitating the control service.
type FakeService struct {
	Server *httptest.Server

	mu         sync.Mutex
	requests   []RecordedRequest
	modelOrder []string
	models     map[string]string
	responses  map[string]cannedResponse
	handlers   map[string]http.HandlerFunc
}

// NewFakeService starts a fake control service that is shut down when the
// test ends.
func NewFakeService(t *testing.T) *FakeService {
	t.Helper()
	f := &FakeService{
		models:    make(map[string]string),
		responses: make(map[string]cannedResponse),
		handlers:  make(map[string]http.HandlerFunc),
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the base URL with a trailing slash, as users type it.
func (f *FakeService) URL() string {
	return f.Server.URL + "/"
}

// AddModel declares a model and its description document.
func (f *FakeService) AddModel(name, doc string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.models[name]; !exists {
		f.modelOrder = append(f.modelOrder, name)
	}
	f.models[name] = doc
}

// Respond sets a canned answer for method and path (without query).
func (f *FakeService) Respond(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[method+" "+path] = cannedResponse{status: status, body: body}
}

// HandleFunc installs a custom handler for method and path.
func (f *FakeService) HandleFunc(method, path string, fn http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method+" "+path] = fn
}

// Requests returns a copy of every request received so far.
func (f *FakeService) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// RequestsTo returns the requests whose path starts with prefix.
func (f *FakeService) RequestsTo(prefix string) []RecordedRequest {
	var matched []RecordedRequest
	for _, req := range f.Requests() {
		if strings.HasPrefix(req.Path, prefix) {
			matched = append(matched, req)
		}
	}
	return matched
}

func (f *FakeService) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method:   r.Method,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Header:   r.Header.Clone(),
		Body:     string(body),
	})
	key := r.Method + " " + r.URL.Path
	handler, hasHandler := f.handlers[key]
	canned, hasCanned := f.responses[key]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case hasHandler:
		handler(w, r)
	case hasCanned:
		w.WriteHeader(canned.status)
		fmt.Fprint(w, canned.body)
	case r.Method == http.MethodGet && r.URL.Path == "/":
		fmt.Fprint(w, `{"status": "ok"}`)
	case r.Method == http.MethodGet && r.URL.Path == "/datamodel/":
		f.serveDatamodel(w, r.URL.Query().Get("model"))
	default:
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"detail": "Not found."}`)
	}
}

func (f *FakeService) serveDatamodel(w http.ResponseWriter, model string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if model == "" {
		quoted := make([]string, len(f.modelOrder))
		for i, name := range f.modelOrder {
			quoted[i] = fmt.Sprintf("%q", name)
		}
		fmt.Fprintf(w, `{"datamodels": [%s]}`, strings.Join(quoted, ", "))
		return
	}

	doc, ok := f.models[model]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"detail": "Unknown model."}`)
		return
	}
	fmt.Fprint(w, doc)
}
