package archiver

import (
	"context"
	"time"

	"repo-archiver/internal/github"
)

// Target is one repository to archive, tagged with its inventory row.
type Target struct {
	Index int
	Name  string
}

type EventKind int

const (
	// Started marks the archive call for a target as in flight.
	Started EventKind = iota
	// Done marks a target archived (or simulated, in dry-run).
	Done
	// Failed carries the collaborator's error text verbatim in Reason.
	Failed
)

type Event struct {
	Index  int
	Kind   EventKind
	Reason string
}

type Failure struct {
	Name   string
	Reason string
}

type Summary struct {
	Succeeded int
	Failures  []Failure
}

type Options struct {
	// DryRun simulates each archive call without invoking the client.
	DryRun bool
	// Pause is the delay between consecutive archive calls, to be nice
	// to the API. Defaults to 100ms.
	Pause time.Duration
	// SimulatedLatency stands in for the archive call in dry-run mode.
	// Defaults to 300ms.
	SimulatedLatency time.Duration
}

const (
	defaultPause            = 100 * time.Millisecond
	defaultSimulatedLatency = 300 * time.Millisecond
)

// Archive runs the archive operation for each target in order, exactly once
// per target, sending a Started event and then one terminal event per target
// on the progress channel. One target failing never stops the rest, and
// there are no retries. Archive blocks until every target is resolved;
// callers wanting live progress run it in a goroutine. The progress channel
// is not closed here.
func Archive(ctx context.Context, client github.Client, targets []Target, progress chan<- Event, opts Options) Summary {
	if ctx == nil {
		ctx = context.Background()
	}
	pause := opts.Pause
	if pause <= 0 {
		pause = defaultPause
	}
	simulated := opts.SimulatedLatency
	if simulated <= 0 {
		simulated = defaultSimulatedLatency
	}

	emit := func(ev Event) {
		if progress != nil {
			progress <- ev
		}
	}

	var sum Summary
	for i, t := range targets {
		emit(Event{Index: t.Index, Kind: Started})

		var err error
		switch {
		case ctx.Err() != nil:
			// Never start a call whose outcome we could not observe.
			err = ctx.Err()
		case opts.DryRun:
			sleep(ctx, simulated)
		default:
			err = client.ArchiveRepo(ctx, t.Name)
		}

		if err != nil {
			emit(Event{Index: t.Index, Kind: Failed, Reason: err.Error()})
			sum.Failures = append(sum.Failures, Failure{Name: t.Name, Reason: err.Error()})
		} else {
			emit(Event{Index: t.Index, Kind: Done})
			sum.Succeeded++
		}

		if i < len(targets)-1 && ctx.Err() == nil {
			sleep(ctx, pause)
		}
	}
	return sum
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
