package inbound_test

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/nmnhut-it/zest-gateway/internal/gateway/inbound"
	"github.com/nmnhut-it/zest-gateway/internal/gateway/proxyclient"
	"github.com/nmnhut-it/zest-gateway/internal/gateway/state"
	"github.com/nmnhut-it/zest-gateway/internal/gateway/usecase"
	"github.com/nmnhut-it/zest-gateway/internal/pkg/pkgrouter"
)

type fixedGenerator struct{}

func (fixedGenerator) Generate() string { return "test-cid" }

// backendCall records one request the fake agent proxy received.
type backendCall struct {
	Method string
	Path   string
	Body   map[string]any
}

type fakeProxy struct {
	ts    *httptest.Server
	calls []backendCall
}

// newFakeProxy serves an agent-proxy-shaped backend. handler may override
// responses per path; unmatched paths answer 200 {"ok":true}.
func newFakeProxy(t *testing.T, handler func(w http.ResponseWriter, r *http.Request) bool) *fakeProxy {
	t.Helper()

	fp := &fakeProxy{}
	fp.ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := backendCall{Method: r.Method, Path: r.URL.Path}
		if raw, err := io.ReadAll(r.Body); err == nil && len(raw) > 0 {
			_ = json.Unmarshal(raw, &call.Body)
		}
		fp.calls = append(fp.calls, call)

		if handler != nil && handler(w, r) {
			return
		}
		if r.URL.Path == "/health" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"service":"agent-proxy","project":"demo"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(fp.ts.Close)

	return fp
}

func newGateway(t *testing.T, backendURL, token string) http.Handler {
	t.Helper()

	client := proxyclient.New(proxyclient.Config{})
	states := state.New(backendURL)
	uc := usecase.New(usecase.Dependency{Backend: client, State: states})

	router := pkgrouter.NewRouter(fixedGenerator{})
	inbound.RegisterHTTPEndpoint(router, uc, pkgrouter.BearerAuth(func() string { return token }))

	return router
}

func doJSON(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var decoded map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}

	return decoded
}

func TestRoutesOpenWithoutToken(t *testing.T) {
	fp := newFakeProxy(t, nil)
	gw := newGateway(t, fp.ts.URL, "")

	rec := doJSON(t, gw, http.MethodGet, "/status", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 when no token is configured", rec.Code)
	}
}

func TestAuthGuardsToolRoutes(t *testing.T) {
	fp := newFakeProxy(t, nil)
	gw := newGateway(t, fp.ts.URL, "secret")

	rec := doJSON(t, gw, http.MethodPost, "/search", "", `{"query":"handlers"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := decodeResponse(t, rec)["message"]; got != "Invalid API key" {
		t.Errorf("message = %v", got)
	}
	if len(fp.calls) != 0 {
		t.Errorf("backend was reached before auth: %v", fp.calls)
	}

	rec = doJSON(t, gw, http.MethodPost, "/search", "secret", `{"query":"handlers"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status with token = %d, want 200", rec.Code)
	}
}

func TestHealthOpenAndDegradedWhenProxyDown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	deadURL := "http://127.0.0.1:" + strconv.Itoa(ln.Addr().(*net.TCPAddr).Port)
	_ = ln.Close()

	gw := newGateway(t, deadURL, "secret")

	rec := doJSON(t, gw, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even when the proxy is down", rec.Code)
	}

	decoded := decodeResponse(t, rec)
	if decoded["status"] != "healthy" {
		t.Errorf("status field = %v", decoded["status"])
	}
	if decoded["proxy_connected"] != false {
		t.Errorf("proxy_connected = %v, want false", decoded["proxy_connected"])
	}
	if decoded["proxy_info"] != nil {
		t.Errorf("proxy_info = %v, want null", decoded["proxy_info"])
	}
}

func TestHealthReportsProxyInfo(t *testing.T) {
	fp := newFakeProxy(t, nil)
	gw := newGateway(t, fp.ts.URL, "")

	rec := doJSON(t, gw, http.MethodGet, "/health", "", "")
	decoded := decodeResponse(t, rec)

	if decoded["proxy_connected"] != true {
		t.Fatalf("proxy_connected = %v, want true", decoded["proxy_connected"])
	}
	info, ok := decoded["proxy_info"].(map[string]any)
	if !ok || info["project"] != "demo" {
		t.Errorf("proxy_info = %v", decoded["proxy_info"])
	}
}

func TestSearchBuildsToolInvocation(t *testing.T) {
	fp := newFakeProxy(t, nil)
	gw := newGateway(t, fp.ts.URL, "")

	rec := doJSON(t, gw, http.MethodPost, "/search", "", `{"query":"error handling"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	if len(fp.calls) != 1 {
		t.Fatalf("backend calls = %d, want 1", len(fp.calls))
	}
	call := fp.calls[0]
	if call.Path != "/execute-tool" {
		t.Errorf("path = %q, want /execute-tool", call.Path)
	}
	if call.Body["tool"] != "search_code" {
		t.Errorf("tool = %v", call.Body["tool"])
	}
	params, _ := call.Body["parameters"].(map[string]any)
	if params["query"] != "error handling" {
		t.Errorf("query param = %v", params["query"])
	}
	if params["max_results"] != float64(10) {
		t.Errorf("max_results = %v, want default 10", params["max_results"])
	}
}

func TestFindByNameRejectsUnknownType(t *testing.T) {
	fp := newFakeProxy(t, nil)
	gw := newGateway(t, fp.ts.URL, "")

	rec := doJSON(t, gw, http.MethodPost, "/find-by-name", "", `{"name":"Router","type":"struct"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if len(fp.calls) != 0 {
		t.Errorf("backend was reached on invalid input")
	}
}

func TestExploreFoldsBackendFailure(t *testing.T) {
	fp := newFakeProxy(t, func(w http.ResponseWriter, r *http.Request) bool {
		if r.URL.Path == "/explore" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"detail":"exploration crashed"}`))
			return true
		}
		return false
	})
	gw := newGateway(t, fp.ts.URL, "")

	rec := doJSON(t, gw, http.MethodPost, "/explore", "", `{"query":"what does the router do"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with folded failure", rec.Code)
	}

	decoded := decodeResponse(t, rec)
	if decoded["success"] != false {
		t.Errorf("success = %v, want false", decoded["success"])
	}
	if decoded["error"] != "exploration crashed" {
		t.Errorf("error = %v", decoded["error"])
	}
}

func TestRelayRouteSurfacesUpstreamFailure(t *testing.T) {
	fp := newFakeProxy(t, func(w http.ResponseWriter, r *http.Request) bool {
		if r.URL.Path == "/status" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"detail":"proxy broken"}`))
			return true
		}
		return false
	})
	gw := newGateway(t, fp.ts.URL, "")

	rec := doJSON(t, gw, http.MethodGet, "/status", "", "")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if got := decodeResponse(t, rec)["message"]; got != "proxy broken" {
		t.Errorf("message = %v", got)
	}
}

func TestBadJSONRejected(t *testing.T) {
	fp := newFakeProxy(t, nil)
	gw := newGateway(t, fp.ts.URL, "")

	rec := doJSON(t, gw, http.MethodPost, "/explore", "", `{"query":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(fp.calls) != 0 {
		t.Errorf("backend was reached on malformed body")
	}
}

func TestConfigUpdateForwardsOnlyProvidedFields(t *testing.T) {
	fp := newFakeProxy(t, nil)
	gw := newGateway(t, fp.ts.URL, "")

	rec := doJSON(t, gw, http.MethodPost, "/config", "", `{"max_rounds":3,"include_tests":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	if len(fp.calls) != 1 {
		t.Fatalf("backend calls = %d, want 1", len(fp.calls))
	}
	body := fp.calls[0].Body
	if body["max_rounds"] != float64(3) || body["include_tests"] != true {
		t.Errorf("forwarded body = %v", body)
	}
	if _, present := body["max_tool_calls"]; present {
		t.Errorf("unset field was forwarded: %v", body)
	}
}

func TestOpenAPIAdvertisesTools(t *testing.T) {
	fp := newFakeProxy(t, nil)
	gw := newGateway(t, fp.ts.URL, "secret")

	// No token on purpose: the schema stays public.
	rec := doJSON(t, gw, http.MethodGet, "/openapi.json", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 without auth", rec.Code)
	}

	decoded := decodeResponse(t, rec)
	paths, _ := decoded["paths"].(map[string]any)
	search, _ := paths["/search"].(map[string]any)
	post, _ := search["post"].(map[string]any)
	tool, _ := post["x-openai-tool"].(map[string]any)
	fn, _ := tool["function"].(map[string]any)
	if fn["name"] != "search_code" {
		t.Errorf("x-openai-tool function name = %v", fn["name"])
	}
}
