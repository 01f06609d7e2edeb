package engine

import (
	"context"
	"fmt"
	"time"

	"surfwatch/internal/store"
)

// CleanupResult reports what a retention pass removed.
type CleanupResult struct {
	EventsRemoved int `json:"events_removed"`
	DomainsPruned int `json:"domains_pruned"`
}

// Cleanup prunes journal entries older than the event TTL and domain
// aggregates idle past the domain TTL. Pinned domains are never pruned.
// Unforced runs are skipped when the minimum interval has not elapsed.
// The pass itself runs on the update queue so it cannot interleave with
// classification updates.
func (e *Engine) Cleanup(ctx context.Context, force bool) (CleanupResult, error) {
	e.cleanupMu.Lock()
	if !force && e.cleanupMinInterval > 0 && time.Since(e.lastCleanup) < e.cleanupMinInterval {
		e.cleanupMu.Unlock()
		return CleanupResult{}, nil
	}
	e.lastCleanup = time.Now()
	e.cleanupMu.Unlock()

	type outcome struct {
		res CleanupResult
		err error
	}
	done := make(chan outcome, 1)

	queued := e.queue.Enqueue("cleanup", func(ctx context.Context) error {
		res, err := e.runCleanup(ctx)
		done <- outcome{res: res, err: err}
		return err
	})
	if !queued {
		return CleanupResult{}, fmt.Errorf("engine: update queue closed")
	}

	select {
	case out := <-done:
		return out.res, out.err
	case <-ctx.Done():
		return CleanupResult{}, ctx.Err()
	}
}

func (e *Engine) runCleanup(ctx context.Context) (CleanupResult, error) {
	var res CleanupResult
	now := time.Now()

	if e.eventTTL > 0 {
		keys, err := e.repo.EventKeys(ctx)
		if err != nil {
			return res, err
		}
		var stale []string
		for _, key := range keys {
			ev, err := e.repo.Event(ctx, key)
			if err != nil {
				return res, err
			}
			if ev == nil {
				continue
			}
			if now.Sub(ev.Timestamp) > e.eventTTL {
				stale = append(stale, key)
			}
		}
		if len(stale) > 0 {
			if err := e.repo.DeleteKeys(ctx, stale); err != nil {
				return res, err
			}
			res.EventsRemoved = len(stale)
		}
	}

	if e.domainTTL > 0 {
		keys, err := e.repo.DomainKeys(ctx)
		if err != nil {
			return res, err
		}
		for _, key := range keys {
			domain := store.DomainOfKey(key)
			snap, err := e.repo.Load(ctx, domain)
			if err != nil {
				return res, err
			}
			if snap.State == nil {
				continue
			}
			// A pinned domain's state survives regardless of age.
			if snap.Override != nil && snap.Override.Pinned {
				continue
			}
			if now.Sub(snap.State.LastSeen) > e.domainTTL {
				if err := e.repo.DeleteDomain(ctx, domain); err != nil {
					return res, err
				}
				res.DomainsPruned++
			}
		}
	}

	return res, nil
}
