package adapter

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestTransport() *HTTPTransport {
	return NewHTTPTransport(5*time.Second,
		[]int{502, 503},
		[]string{"connection refused"})
}

func TestTransport_ReturnsPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "k" {
			t.Errorf("apikey header not forwarded")
		}
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	resp, err := newTestTransport().Send(srv.URL, http.MethodGet, nil, map[string]string{"apikey": "k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if string(resp.Payload) != `{"success":true}` {
		t.Fatalf("unexpected payload: %s", resp.Payload)
	}
}

func TestTransport_NonFatalStatusBecomesNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestTransport().Send(srv.URL, http.MethodGet, nil, nil)

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if netErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected status 502 on the error, got %d", netErr.StatusCode)
	}
}

func TestTransport_OtherStatusReturnedRaw(t *testing.T) {
	// A 400 is not in the non-fatal list: the response comes back raw and the
	// payload-level success flag decides.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"errorMessage":"Invalid argument."}`))
	}))
	defer srv.Close()

	resp, err := newTestTransport().Send(srv.URL, http.MethodGet, nil, nil)
	if err != nil {
		t.Fatalf("expected raw response, got error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestTransport_ConnectionRefusedClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close() // nothing listens here any more

	_, err := newTestTransport().Send(addr, http.MethodGet, nil, nil)

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError for refused connection, got %v", err)
	}
}

func TestTransport_PostBodyDelivered(t *testing.T) {
	var got []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	body := []byte(`{"orderIds":["1"]}`)
	if _, err := newTestTransport().Send(srv.URL, http.MethodPost, body, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != string(body) {
		t.Fatalf("body mismatch: got %s", got)
	}
}
