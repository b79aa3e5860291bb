package archiver

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repo-archiver/internal/github"
)

// fakeClient scripts per-repo archive outcomes and records every call.
type fakeClient struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]string
}

func (f *fakeClient) ListRepos(ctx context.Context, cutoff time.Time) ([]github.Repo, error) {
	return nil, nil
}

func (f *fakeClient) ArchiveRepo(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	if reason, ok := f.fail[name]; ok {
		return errors.New(reason)
	}
	return nil
}

func fastOpts() Options {
	return Options{Pause: time.Millisecond, SimulatedLatency: time.Millisecond}
}

func runCollecting(t *testing.T, client github.Client, targets []Target, opts Options) ([]Event, Summary) {
	t.Helper()
	progress := make(chan Event, 2*len(targets)+1)
	sum := Archive(context.Background(), client, targets, progress, opts)
	close(progress)
	var events []Event
	for ev := range progress {
		events = append(events, ev)
	}
	return events, sum
}

func TestArchive_IndependentFailure(t *testing.T) {
	client := &fakeClient{fail: map[string]string{"b": "boom: permission denied"}}
	targets := []Target{{0, "a"}, {1, "b"}, {2, "c"}}

	events, sum := runCollecting(t, client, targets, fastOpts())

	require.Equal(t, []string{"a", "b", "c"}, client.calls)
	assert.Equal(t, 2, sum.Succeeded)
	require.Len(t, sum.Failures, 1)
	assert.Equal(t, "b", sum.Failures[0].Name)
	assert.Equal(t, "boom: permission denied", sum.Failures[0].Reason)

	want := []Event{
		{Index: 0, Kind: Started},
		{Index: 0, Kind: Done},
		{Index: 1, Kind: Started},
		{Index: 1, Kind: Failed, Reason: "boom: permission denied"},
		{Index: 2, Kind: Started},
		{Index: 2, Kind: Done},
	}
	assert.Equal(t, want, events)
}

func TestArchive_ExactlyOneCallPerTarget(t *testing.T) {
	client := &fakeClient{}
	targets := []Target{{0, "a"}, {1, "b"}, {2, "c"}, {3, "d"}}

	_, sum := runCollecting(t, client, targets, fastOpts())

	require.Len(t, client.calls, len(targets))
	seen := map[string]int{}
	for _, c := range client.calls {
		seen[c]++
	}
	for _, tgt := range targets {
		assert.Equal(t, 1, seen[tgt.Name], "repo %s", tgt.Name)
	}
	assert.Equal(t, len(targets), sum.Succeeded)
}

func TestArchive_DryRunNeverCallsClient(t *testing.T) {
	client := &fakeClient{fail: map[string]string{"a": "would fail if called"}}
	targets := []Target{{0, "a"}, {1, "b"}}
	opts := fastOpts()
	opts.DryRun = true

	first, sum := runCollecting(t, client, targets, opts)
	require.Empty(t, client.calls)
	assert.Equal(t, 2, sum.Succeeded)
	assert.Empty(t, sum.Failures)

	// identical outcome sequence on a second run
	second, _ := runCollecting(t, client, targets, opts)
	require.Empty(t, client.calls)
	assert.Equal(t, first, second)
}

func TestArchive_NilProgressChannel(t *testing.T) {
	client := &fakeClient{}
	sum := Archive(context.Background(), client, []Target{{0, "a"}}, nil, fastOpts())
	assert.Equal(t, 1, sum.Succeeded)
}

func TestArchive_CancelledContextSkipsCalls(t *testing.T) {
	client := &fakeClient{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	targets := []Target{{0, "a"}, {1, "b"}}
	progress := make(chan Event, 2*len(targets))
	sum := Archive(ctx, client, targets, progress, fastOpts())
	close(progress)

	assert.Empty(t, client.calls)
	assert.Equal(t, 0, sum.Succeeded)
	require.Len(t, sum.Failures, 2)
	for _, f := range sum.Failures {
		assert.Equal(t, context.Canceled.Error(), f.Reason)
	}
}
