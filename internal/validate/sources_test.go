package validate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vidfact/vidfact/internal/model"
)

func testConfig() model.HTTPConfig {
	return model.HTTPConfig{
		Timeout:   5 * time.Second,
		UserAgent: "vidfact/0.1",
	}
}

// sourceSite serves a robots.txt blocking /private and a titled page
// everywhere else.
func sourceSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /private\n"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/missing") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><head><title>Reference Page</title></head><body>ok</body></html>"))
	})
	return httptest.NewServer(mux)
}

func TestSourceValidator_AccessibleSourceWithTitle(t *testing.T) {
	srv := sourceSite(t)
	defer srv.Close()

	v := NewSourceValidator(testConfig(), 4)
	results := v.Validate(context.Background(), []string{srv.URL + "/article"})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if !r.Accessible {
		t.Errorf("expected accessible, got error %q", r.Error)
	}
	if r.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", r.StatusCode)
	}
	if r.Title != "Reference Page" {
		t.Errorf("expected title from page, got %q", r.Title)
	}
}

func TestSourceValidator_RobotsBlocked(t *testing.T) {
	srv := sourceSite(t)
	defer srv.Close()

	v := NewSourceValidator(testConfig(), 4)
	results := v.Validate(context.Background(), []string{srv.URL + "/private/report"})

	r := results[0]
	if r.Accessible {
		t.Error("disallowed path must not be fetched")
	}
	if r.Error != "blocked by robots.txt" {
		t.Errorf("expected robots error, got %q", r.Error)
	}
}

func TestSourceValidator_NonURLCitation(t *testing.T) {
	v := NewSourceValidator(testConfig(), 4)
	results := v.Validate(context.Background(), []string{"Encyclopedia Britannica, 2019 edition"})

	r := results[0]
	if r.Accessible {
		t.Error("plain-text citation must not be marked accessible")
	}
	if r.Error != "not a fetchable URL" {
		t.Errorf("expected non-URL error, got %q", r.Error)
	}
}

func TestSourceValidator_NotFoundAndOrder(t *testing.T) {
	srv := sourceSite(t)
	defer srv.Close()

	v := NewSourceValidator(testConfig(), 2)
	urls := []string{srv.URL + "/missing/page", srv.URL + "/good"}
	results := v.Validate(context.Background(), urls)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].URL != urls[0] || results[1].URL != urls[1] {
		t.Error("results must preserve input order")
	}
	if results[0].Accessible || results[0].StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for missing page, got %+v", results[0])
	}
	if !results[1].Accessible {
		t.Errorf("expected second URL accessible, got %+v", results[1])
	}
}

func TestSourceValidator_RetriesServerErrors(t *testing.T) {
	oldSleep := sleepFunc
	sleepFunc = func(time.Duration) {}
	defer func() { sleepFunc = oldSleep }()

	attempts := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", http.NotFound)
	mux.HandleFunc("/flaky", func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><head><title>Recovered</title></head></html>"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	v := NewSourceValidator(testConfig(), 1)
	results := v.Validate(context.Background(), []string{srv.URL + "/flaky"})

	if !results[0].Accessible {
		t.Errorf("expected success after retries, got %+v", results[0])
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}
