// Package merge keeps the running merge of partial fire weather records per
// station, time and record kind.
package merge

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/couchcryptid/fwi-merge-service/internal/domain"
)

// Policy selects the order in which partial records are merged.
type Policy string

const (
	// PolicyArrival merges every partial over the current state, so the most
	// recent message wins each field it specifies.
	PolicyArrival Policy = "arrival"
	// PolicyRanked keeps partials per source and folds them in ascending
	// source rank, so a more trusted source wins regardless of arrival order.
	PolicyRanked Policy = "ranked"
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyArrival, PolicyRanked:
		return p, nil
	default:
		return "", fmt.Errorf("unknown merge policy %q", s)
	}
}

// slot is the cached state of one key. Slots are replaced, never mutated, so
// readers may hold one while a writer installs the next.
type slot struct {
	merged   domain.MergedRecord
	bySource map[domain.Source]domain.Record
}

// Option configures a Store.
type Option func(*Store)

// WithEvictionHook registers fn to be called with the key of every slot
// dropped from the cache.
func WithEvictionHook(fn func(key string)) Option {
	return func(s *Store) { s.cache.onEvict = fn }
}

// Store merges envelopes into bounded per-key state. It is safe for
// concurrent use.
type Store struct {
	policy Policy
	mu     sync.Mutex // serializes Apply
	cache  *lruCache
}

// NewStore creates a Store holding at most maxEntries keys.
func NewStore(policy Policy, maxEntries int, opts ...Option) *Store {
	s := &Store{
		policy: policy,
		cache:  newLRUCache(maxEntries),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Apply merges env into the state of its key and returns the new snapshot.
func (s *Store) Apply(env domain.Envelope) (domain.MergedRecord, error) {
	if env.Record == nil {
		return domain.MergedRecord{}, errors.New("envelope has no record")
	}
	if env.Source == "" {
		env.Source = domain.SourceUnknown
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := env.Key()
	prev, found := s.cache.get(key)

	var (
		next slot
		err  error
	)
	if s.policy == PolicyRanked {
		next, err = applyRanked(prev, found, env)
	} else {
		next, err = applyArrival(prev, found, env)
	}
	if err != nil {
		return domain.MergedRecord{}, fmt.Errorf("merge %s: %w", key, err)
	}

	s.cache.put(key, next)
	return clone(next.merged), nil
}

// Lookup returns the current snapshot for a key.
func (s *Store) Lookup(kind domain.Kind, station string, t time.Time) (domain.MergedRecord, bool) {
	sl, ok := s.cache.get(domain.RecordKey(kind, station, t))
	if !ok {
		return domain.MergedRecord{}, false
	}
	return clone(sl.merged), true
}

// Len returns the number of keys held.
func (s *Store) Len() int { return s.cache.len() }

func applyArrival(prev slot, found bool, env domain.Envelope) (slot, error) {
	rec := env.Record
	var sources []domain.Source
	var attrs map[domain.GridAttribute]float64
	if found {
		var err error
		rec, err = domain.Merge(prev.merged.Record, env.Record)
		if err != nil {
			return slot{}, err
		}
		sources = prev.merged.Sources
		attrs = prev.merged.Attributes
	}

	return slot{
		merged: domain.NewMergedRecord(env.Kind, env.Station, env.Time, rec,
			addSource(sources, env.Source), mergeAttributes(attrs, env.Attributes)),
	}, nil
}

func applyRanked(prev slot, found bool, env domain.Envelope) (slot, error) {
	bySource := maps.Clone(prev.bySource)
	if bySource == nil {
		bySource = make(map[domain.Source]domain.Record)
	}

	// Within one source the newest partial wins.
	if r, ok := bySource[env.Source]; ok {
		merged, err := domain.Merge(r, env.Record)
		if err != nil {
			return slot{}, err
		}
		bySource[env.Source] = merged
	} else {
		bySource[env.Source] = env.Record
	}

	order := slices.SortedFunc(maps.Keys(bySource), func(a, b domain.Source) int {
		if c := cmp.Compare(a.Rank(), b.Rank()); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	var rec domain.Record
	for _, src := range order {
		if rec == nil {
			rec = bySource[src]
			continue
		}
		var err error
		if rec, err = domain.Merge(rec, bySource[src]); err != nil {
			return slot{}, err
		}
	}

	var attrs map[domain.GridAttribute]float64
	if found {
		attrs = prev.merged.Attributes
	}
	return slot{
		merged: domain.NewMergedRecord(env.Kind, env.Station, env.Time, rec,
			order, mergeAttributes(attrs, env.Attributes)),
		bySource: bySource,
	}, nil
}

func addSource(sources []domain.Source, src domain.Source) []domain.Source {
	if slices.Contains(sources, src) {
		return slices.Clone(sources)
	}
	return append(slices.Clone(sources), src)
}

// mergeAttributes overlays the newest grid attributes on the known ones.
func mergeAttributes(base, overlay map[domain.GridAttribute]float64) map[domain.GridAttribute]float64 {
	if len(base) == 0 && len(overlay) == 0 {
		return nil
	}
	out := maps.Clone(base)
	if out == nil {
		out = make(map[domain.GridAttribute]float64, len(overlay))
	}
	maps.Copy(out, overlay)
	return out
}

func clone(m domain.MergedRecord) domain.MergedRecord {
	m.Sources = slices.Clone(m.Sources)
	m.Attributes = maps.Clone(m.Attributes)
	m.Derivable = slices.Clone(m.Derivable)
	return m
}
