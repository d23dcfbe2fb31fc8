package client

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestBearerTransportSetsHeader(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}))
	defer ts.Close()

	hc := &http.Client{Transport: &bearerTransport{base: http.DefaultTransport, header: "Bearer k"}}
	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	resp, err := hc.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if got != "Bearer k" {
		t.Errorf("Authorization = %q, want %q", got, "Bearer k")
	}
	// The caller's request must not be mutated.
	if h := req.Header.Get("Authorization"); h != "" {
		t.Errorf("original request header = %q, want empty", h)
	}
}

func TestBearerHeaderSurvivesRedirect(t *testing.T) {
	var atTarget string
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusFound)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		atTarget = r.Header.Get("Authorization")
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	hc := &http.Client{Transport: &bearerTransport{base: http.DefaultTransport, header: "Bearer k"}}
	resp, err := hc.Get(ts.URL + "/old")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if atTarget != "Bearer k" {
		t.Errorf("Authorization after redirect = %q, want %q", atTarget, "Bearer k")
	}
}

func TestTLSVerificationPolicy(t *testing.T) {
	insecure := testClient(t, Config{ServerURL: "https://h", APIKey: "k", VerifyTLS: false})
	tr := insecure.newHTTPTransport()
	if tr.TLSClientConfig == nil || !tr.TLSClientConfig.InsecureSkipVerify {
		t.Error("VerifyTLS=false must disable certificate verification")
	}

	strict := testClient(t, Config{ServerURL: "https://h", APIKey: "k", VerifyTLS: true})
	tr = strict.newHTTPTransport()
	if tr.TLSClientConfig != nil {
		t.Error("VerifyTLS=true must leave TLS settings at their defaults")
	}
}

func TestClientTimeouts(t *testing.T) {
	c := testClient(t, Config{ServerURL: "https://h", APIKey: "k", Timeout: 5 * time.Second})

	if got := c.newHealthClient().Timeout; got != 5*time.Second {
		t.Errorf("health client timeout = %s, want 5s", got)
	}
	// The streaming client holds SSE responses open, so it gets no
	// whole-request timeout; the limit applies to response headers instead.
	if got := c.newStreamClient().Timeout; got != 0 {
		t.Errorf("stream client timeout = %s, want 0", got)
	}
	if got := c.newHTTPTransport().ResponseHeaderTimeout; got != 5*time.Second {
		t.Errorf("response header timeout = %s, want 5s", got)
	}
}
