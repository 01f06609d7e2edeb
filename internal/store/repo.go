package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"surfwatch/internal/model"
)

// Key prefixes. One namespace per record kind in the shared KV.
const (
	prefixDomain   = "domain_state:"
	prefixRisk     = "risk:"
	prefixOverride = "override:"
	prefixEvent    = "event:"
)

// EventRecord is one raw journal entry, kept only for TTL pruning and
// diagnostics. Only the registrable domain is ever recorded — never a
// URL or parameter value.
type EventRecord struct {
	Domain    string              `json:"domain"`
	Level     model.ActivityLevel `json:"level"`
	Timestamp time.Time           `json:"ts"`
}

// Snapshot is everything the pipeline reads about one domain in a single
// Get, to keep the read-modify-write a single round trip.
type Snapshot struct {
	State    *model.DomainActivityState
	Risk     *model.RiskRecord
	Override *model.UserOverride
}

// Repo layers typed records over the KV contract.
type Repo struct {
	kv KV
}

// NewRepo wraps a KV.
func NewRepo(kv KV) *Repo {
	return &Repo{kv: kv}
}

// Load reads the domain's state, risk record, and override in one batch.
// Absent records come back nil.
func (r *Repo) Load(ctx context.Context, domain string) (*Snapshot, error) {
	stateKey := prefixDomain + domain
	riskKey := prefixRisk + domain
	overrideKey := prefixOverride + domain

	got, err := r.kv.Get(ctx, []string{stateKey, riskKey, overrideKey})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", domain, err)
	}

	snap := &Snapshot{}
	if raw, ok := got[stateKey]; ok {
		var st model.DomainActivityState
		if err := json.Unmarshal(raw, &st); err != nil {
			return nil, fmt.Errorf("decode state %s: %w", domain, err)
		}
		st.RestoreCounts()
		snap.State = &st
	}
	if raw, ok := got[riskKey]; ok {
		var rr model.RiskRecord
		if err := json.Unmarshal(raw, &rr); err != nil {
			return nil, fmt.Errorf("decode risk %s: %w", domain, err)
		}
		snap.Risk = &rr
	}
	if raw, ok := got[overrideKey]; ok {
		var ov model.UserOverride
		if err := json.Unmarshal(raw, &ov); err != nil {
			return nil, fmt.Errorf("decode override %s: %w", domain, err)
		}
		snap.Override = &ov
	}
	return snap, nil
}

// Commit writes the updated state, risk record, and one journal entry in
// a single batch. Either everything lands or nothing does.
func (r *Repo) Commit(ctx context.Context, state *model.DomainActivityState, riskRec model.RiskRecord, ev EventRecord) error {
	items := make(map[string]json.RawMessage, 3)

	rawState, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state %s: %w", state.Domain, err)
	}
	items[prefixDomain+state.Domain] = rawState

	rawRisk, err := json.Marshal(riskRec)
	if err != nil {
		return fmt.Errorf("encode risk %s: %w", state.Domain, err)
	}
	items[prefixRisk+state.Domain] = rawRisk

	rawEvent, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	items[prefixEvent+uuid.NewString()] = rawEvent

	return r.kv.Set(ctx, items)
}

// SaveOverride persists a user override for a domain.
func (r *Repo) SaveOverride(ctx context.Context, domain string, ov model.UserOverride) error {
	raw, err := json.Marshal(ov)
	if err != nil {
		return fmt.Errorf("encode override %s: %w", domain, err)
	}
	return r.kv.Set(ctx, map[string]json.RawMessage{prefixOverride + domain: raw})
}

// Override reads a domain's override; nil when none exists.
func (r *Repo) Override(ctx context.Context, domain string) (*model.UserOverride, error) {
	snap, err := r.Load(ctx, domain)
	if err != nil {
		return nil, err
	}
	return snap.Override, nil
}

// EventKeys lists all journal entry keys.
func (r *Repo) EventKeys(ctx context.Context) ([]string, error) {
	return r.kv.Keys(ctx, prefixEvent)
}

// Event reads one journal entry by key.
func (r *Repo) Event(ctx context.Context, key string) (*EventRecord, error) {
	got, err := r.kv.Get(ctx, []string{key})
	if err != nil {
		return nil, err
	}
	raw, ok := got[key]
	if !ok {
		return nil, nil
	}
	var ev EventRecord
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("decode event %s: %w", key, err)
	}
	return &ev, nil
}

// DomainKeys lists all domain-state keys; Domain extracts the domain.
func (r *Repo) DomainKeys(ctx context.Context) ([]string, error) {
	return r.kv.Keys(ctx, prefixDomain)
}

// DomainOfKey strips the state prefix from a key returned by DomainKeys.
func DomainOfKey(key string) string {
	return key[len(prefixDomain):]
}

// DeleteKeys removes raw keys (cleanup path).
func (r *Repo) DeleteKeys(ctx context.Context, keys []string) error {
	return r.kv.Delete(ctx, keys)
}

// DeleteDomain removes a domain's state and risk record, leaving the
// override untouched.
func (r *Repo) DeleteDomain(ctx context.Context, domain string) error {
	return r.kv.Delete(ctx, []string{prefixDomain + domain, prefixRisk + domain})
}
