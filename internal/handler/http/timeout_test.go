package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTimeout_Success(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"summary":"ok"}`))
	})

	rec := httptest.NewRecorder()
	Timeout(1*time.Second)(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/extract_information", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != `{"summary":"ok"}` {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected buffered header to be copied, got %q", ct)
	}
}

func TestTimeout_Timeout(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("should not reach here"))
	})

	rec := httptest.NewRecorder()
	Timeout(50*time.Millisecond)(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/extract_information", nil))

	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("expected status 504, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `"detail":"request timeout"`) {
		t.Errorf("expected timeout detail, got %q", body)
	}
}

func TestTimeout_ContextCanceled(t *testing.T) {
	canceled := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		close(canceled)
	})

	rec := httptest.NewRecorder()
	Timeout(50*time.Millisecond)(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	select {
	case <-canceled:
	case <-time.After(time.Second):
		t.Fatal("expected handler context to be canceled")
	}
}

func TestTimeout_WriteAfterTimeout(t *testing.T) {
	writeErr := make(chan error, 1)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		time.Sleep(20 * time.Millisecond)
		_, err := w.Write([]byte("too late"))
		writeErr <- err
	})

	rec := httptest.NewRecorder()
	Timeout(20*time.Millisecond)(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("expected status 504, got %d", rec.Code)
	}
	if err := <-writeErr; err != http.ErrHandlerTimeout {
		t.Errorf("expected ErrHandlerTimeout, got %v", err)
	}
	if strings.Contains(rec.Body.String(), "too late") {
		t.Errorf("late write leaked into response: %q", rec.Body.String())
	}
}

func TestTimeout_ParentCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cancel()
		<-r.Context().Done()
		time.Sleep(10 * time.Millisecond)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx)
	Timeout(time.Second)(handler).ServeHTTP(rec, req)

	if rec.Body.Len() != 0 {
		t.Errorf("expected no response for a disconnected client, got %q", rec.Body.String())
	}
}

func TestTimeout_PanicReachesRecover(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	wrapped := Chain(handler, Recover(discardLogger()), Timeout(time.Second))
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}
}

func TestTimeout_MultipleWrites(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("first "))
		_, _ = w.Write([]byte("second"))
	})

	rec := httptest.NewRecorder()
	Timeout(time.Second)(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != "first second" {
		t.Errorf("expected combined body, got %q", rec.Body.String())
	}
}

func TestTimeout_HandlerReturnsAfterDeadline(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	for range 5 {
		rec := httptest.NewRecorder()
		Timeout(20*time.Millisecond)(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/extract_information", nil))

		if rec.Code != http.StatusGatewayTimeout {
			t.Fatalf("expected status 504, got %d", rec.Code)
		}
		if body := rec.Body.String(); !strings.Contains(body, `"detail":"request timeout"`) {
			t.Fatalf("expected timeout detail, got %q", body)
		}
	}
}
