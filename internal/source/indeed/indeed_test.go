package indeed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/tlegrand/emploi-assistant/internal/jobs"
)

func TestNewRequiresPublisherKey(t *testing.T) {
	if _, err := New(Config{}, zap.NewNop()); err == nil {
		t.Fatal("expected an error when the publisher key is missing")
	}
}

func TestSearchJobs(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("publisher") != "pub-key" {
			t.Fatalf("unexpected publisher: %q", q.Get("publisher"))
		}
		if q.Get("q") != "développeur" || q.Get("l") != "Paris" {
			t.Fatalf("unexpected query/location: %q %q", q.Get("q"), q.Get("l"))
		}
		if q.Get("format") != "json" || q.Get("v") != "2" {
			t.Fatalf("unexpected format params: %v", q)
		}

		fmt.Fprint(w, `{"results": [{"jobkey": "k1", "jobtitle": "Dev"}]}`)
	}))
	defer api.Close()

	client, err := New(Config{PublisherKey: "pub-key", APIURL: api.URL}, zap.NewNop())
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	criteria := jobs.SearchCriteria{Title: "développeur", Location: "Paris"}.WithDefaults()

	records, err := client.SearchJobs(context.Background(), criteria)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 1 || records[0]["jobkey"] != "k1" {
		t.Fatalf("unexpected records: %v", records)
	}
}

func TestSearchJobsAuthError(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer api.Close()

	client, err := New(Config{PublisherKey: "bad", APIURL: api.URL}, zap.NewNop())
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	_, err = client.SearchJobs(context.Background(), jobs.SearchCriteria{Title: "dev"}.WithDefaults())
	if err == nil {
		t.Fatal("expected an error")
	}

	if kind := jobs.KindOf(err); kind != jobs.ErrorKindAuthentication {
		t.Fatalf("expected authentication error, got %s", kind)
	}
}

func TestNormalize(t *testing.T) {
	client, err := New(Config{PublisherKey: "key"}, zap.NewNop())
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	posting, err := client.Normalize(jobs.RawRecord{
		"jobkey":            "abc123",
		"jobtitle":          "Développeur Go",
		"company":           "ACME",
		"formattedLocation": "Paris, France",
		"snippet":           "Backend Go.",
		"url":               "https://example.test/job/abc123",
		"date":              "2024-02-10",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if posting.JobID != "abc123" || posting.Source != jobs.SourceIndeed {
		t.Fatalf("unexpected posting identity: %+v", posting)
	}

	if posting.Location.City != "Paris" || posting.Location.Country != "France" {
		t.Fatalf("unexpected location: %+v", posting.Location)
	}

	if posting.PostedDate != "2024-02-10" {
		t.Fatalf("unexpected posted date: %q", posting.PostedDate)
	}
}

func TestNormalizeDefaultsPostedDate(t *testing.T) {
	client, err := New(Config{PublisherKey: "key"}, zap.NewNop())
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	posting, err := client.Normalize(jobs.RawRecord{"jobkey": "k", "jobtitle": "Dev"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if posting.PostedDate == "" {
		t.Fatal("expected a fallback posted date")
	}
}

func TestSplitLocation(t *testing.T) {
	cases := []struct {
		in         string
		city, ctry string
	}{
		{"Paris, France", "Paris", "France"},
		{"Lyon", "Lyon", ""},
		{"", "", ""},
	}

	for _, tc := range cases {
		city, country := splitLocation(tc.in)
		if city != tc.city || country != tc.ctry {
			t.Fatalf("splitLocation(%q) = (%q, %q), expected (%q, %q)", tc.in, city, country, tc.city, tc.ctry)
		}
	}
}
