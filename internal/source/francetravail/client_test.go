package francetravail

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/tlegrand/emploi-assistant/internal/jobs"
)

func newTestClient(t *testing.T, cfg Config) *Client {
	t.Helper()

	client, err := New(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	return client
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New(Config{}, zap.NewNop()); err == nil {
		t.Fatal("expected an error when no credentials are configured")
	}

	if _, err := New(Config{APIKey: "static"}, zap.NewNop()); err != nil {
		t.Fatalf("a static api key should be enough: %v", err)
	}
}

func TestSearchJobsWithStaticKey(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer static-key" {
			t.Fatalf("unexpected authorization header: %q", got)
		}
		if got := r.URL.Query().Get("motsCles"); got != "développeur" {
			t.Fatalf("unexpected motsCles: %q", got)
		}
		if got := r.URL.Query().Get("range"); got != "0-9" {
			t.Fatalf("unexpected range: %q", got)
		}
		if got := r.URL.Query().Get("departement"); got != "69" {
			t.Fatalf("unexpected departement: %q", got)
		}

		fmt.Fprint(w, `{"resultats": [{"id": "1", "intitule": "Développeur Go"}]}`)
	}))
	defer api.Close()

	client := newTestClient(t, Config{APIKey: "static-key", APIURL: api.URL})

	criteria := jobs.SearchCriteria{Title: "développeur", Location: "Lyon"}.WithDefaults()

	records, err := client.SearchJobs(context.Background(), criteria)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 1 || records[0]["id"] != "1" {
		t.Fatalf("unexpected records: %v", records)
	}
}

func TestSearchJobsExchangesToken(t *testing.T) {
	tokenCalls := 0

	token := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++

		if err := r.ParseForm(); err != nil {
			t.Fatalf("parsing token form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
			t.Fatalf("unexpected grant_type: %q", got)
		}
		if got := r.PostForm.Get("client_id"); got != "id" {
			t.Fatalf("unexpected client_id: %q", got)
		}
		if got := r.PostForm.Get("scope"); got != "api_offresdemploiv2 o2dsoffre" {
			t.Fatalf("unexpected scope: %q", got)
		}

		fmt.Fprint(w, `{"access_token": "tok-1", "expires_in": 1499}`)
	}))
	defer token.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Fatalf("unexpected authorization header: %q", got)
		}

		// A partial range is a success response.
		w.WriteHeader(http.StatusPartialContent)
		fmt.Fprint(w, `{"resultats": [{"id": "a"}, {"id": "b"}]}`)
	}))
	defer api.Close()

	client := newTestClient(t, Config{
		ClientID:     "id",
		ClientSecret: "secret",
		APIURL:       api.URL,
		TokenURL:     token.URL,
	})

	records, err := client.SearchJobs(context.Background(), jobs.SearchCriteria{Title: "dev"}.WithDefaults())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	if tokenCalls != 1 {
		t.Fatalf("expected 1 token exchange, got %d", tokenCalls)
	}

	// A second search reuses the cached token.
	if _, err := client.SearchJobs(context.Background(), jobs.SearchCriteria{Title: "dev"}.WithDefaults()); err != nil {
		t.Fatalf("unexpected error on second search: %v", err)
	}

	if tokenCalls != 1 {
		t.Fatalf("expected cached token reuse, got %d exchanges", tokenCalls)
	}
}

func TestSearchJobsRenewsTokenOnceOn401(t *testing.T) {
	tokenCalls := 0
	searchCalls := 0

	token := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		tokenCalls++
		fmt.Fprintf(w, `{"access_token": "tok-%d", "expires_in": 1499}`, tokenCalls)
	}))
	defer token.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		searchCalls++

		if r.Header.Get("Authorization") == "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		fmt.Fprint(w, `{"resultats": [{"id": "1"}]}`)
	}))
	defer api.Close()

	client := newTestClient(t, Config{
		ClientID:     "id",
		ClientSecret: "secret",
		APIURL:       api.URL,
		TokenURL:     token.URL,
	})

	records, err := client.SearchJobs(context.Background(), jobs.SearchCriteria{Title: "dev"}.WithDefaults())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	if tokenCalls != 2 {
		t.Fatalf("expected exactly one renewal after the initial exchange, got %d exchanges", tokenCalls)
	}

	if searchCalls != 2 {
		t.Fatalf("expected exactly one retry, got %d search calls", searchCalls)
	}
}

func TestSearchJobsDoesNotRetryStaticKeyOn401(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer api.Close()

	client := newTestClient(t, Config{APIKey: "bad-key", APIURL: api.URL})

	_, err := client.SearchJobs(context.Background(), jobs.SearchCriteria{Title: "dev"}.WithDefaults())
	if err == nil {
		t.Fatal("expected an error")
	}

	if kind := jobs.KindOf(err); kind != jobs.ErrorKindAuthentication {
		t.Fatalf("expected authentication error, got %s", kind)
	}
}

func TestSearchJobsRateLimited(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer api.Close()

	client := newTestClient(t, Config{APIKey: "key", APIURL: api.URL})

	_, err := client.SearchJobs(context.Background(), jobs.SearchCriteria{Title: "dev"}.WithDefaults())
	if err == nil {
		t.Fatal("expected an error")
	}

	if kind := jobs.KindOf(err); kind != jobs.ErrorKindRateLimit {
		t.Fatalf("expected rate limit error, got %s", kind)
	}

	var srcErr *jobs.SourceError
	if !errors.As(err, &srcErr) || srcErr.Source != jobs.SourceFranceTravail {
		t.Fatalf("expected a france travail source error, got %v", err)
	}
}

func TestParseSearchResponseShapes(t *testing.T) {
	flat := `{"resultats": [{"id": "1"}, {"id": "2"}]}`
	nested := `{"resultats": {"resultats": [{"id": "3"}]}}`
	empty := `{}`

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("motsCles") {
		case "flat":
			fmt.Fprint(w, flat)
		case "nested":
			fmt.Fprint(w, nested)
		default:
			fmt.Fprint(w, empty)
		}
	}))
	defer api.Close()

	client := newTestClient(t, Config{APIKey: "key", APIURL: api.URL})

	cases := []struct {
		title string
		want  int
	}{
		{"flat", 2},
		{"nested", 1},
		{"none", 0},
	}

	for _, tc := range cases {
		records, err := client.SearchJobs(context.Background(), jobs.SearchCriteria{Title: tc.title}.WithDefaults())
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.title, err)
		}
		if len(records) != tc.want {
			t.Fatalf("%s: expected %d records, got %d", tc.title, tc.want, len(records))
		}
	}
}
