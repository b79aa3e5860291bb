package github

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse time %q: %v", s, err)
	}
	return ts
}

func TestDecodeRepoList(t *testing.T) {
	// gh emits RFC3339 timestamps; description may be null
	data := []byte(`[
		{"name":"newish","createdAt":"2023-01-02T10:00:00Z","pushedAt":"2024-01-01T00:00:00Z","description":"still fresh"},
		{"name":"ancient","createdAt":"2015-03-04T10:00:00Z","pushedAt":"2016-01-01T00:00:00Z","description":null},
		{"name":"old","createdAt":"2018-06-07T10:00:00Z","pushedAt":"2019-01-01T00:00:00Z","description":"dusty"}
	]`)
	cutoff := mustTime(t, "2020-01-01T00:00:00Z")

	repos, err := decodeRepoList(data, cutoff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repos) != 2 {
		t.Fatalf("expected 2 repos, got %d", len(repos))
	}
	// oldest first
	if repos[0].Name != "ancient" || repos[1].Name != "old" {
		t.Fatalf("wrong order: %q, %q", repos[0].Name, repos[1].Name)
	}
	if repos[0].Description != "" {
		t.Fatalf("null description should decode to empty, got %q", repos[0].Description)
	}
}

func TestDecodeRepoList_BadJSON(t *testing.T) {
	if _, err := decodeRepoList([]byte("not json"), time.Now()); err == nil {
		t.Fatal("expected decode error, got none")
	}
}

func TestFilterBefore(t *testing.T) {
	cutoff := mustTime(t, "2020-01-01T00:00:00Z")
	repos := []Repo{
		{Name: "exactly-at-cutoff", CreatedAt: cutoff},
		{Name: "before", CreatedAt: cutoff.Add(-time.Hour)},
		{Name: "after", CreatedAt: cutoff.Add(time.Hour)},
	}

	got := FilterBefore(repos, cutoff)
	if len(got) != 1 {
		t.Fatalf("expected 1 repo, got %d", len(got))
	}
	if got[0].Name != "before" {
		t.Fatalf("expected %q, got %q", "before", got[0].Name)
	}
}

func TestFilterBefore_StableForEqualDates(t *testing.T) {
	cutoff := mustTime(t, "2020-01-01T00:00:00Z")
	created := cutoff.Add(-time.Hour)
	repos := []Repo{
		{Name: "a", CreatedAt: created},
		{Name: "b", CreatedAt: created},
		{Name: "c", CreatedAt: created},
	}

	got := FilterBefore(repos, cutoff)
	if len(got) != 3 {
		t.Fatalf("expected 3 repos, got %d", len(got))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got[i].Name != want {
			t.Fatalf("order not stable at %d: got %q want %q", i, got[i].Name, want)
		}
	}
}
