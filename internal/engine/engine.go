// Package engine coordinates field grouping, cache lookups, remote fetches
// and candidate ranking. One MatchFieldsToStore call walks the phases
// grouping -> cache lookup -> fetch -> matching in strict sequence, with a
// single combined remote query covering every still-unresolved field type.
package engine

import (
	"context"
	"sort"
	"strings"

	"github.com/KennethLeeJE8/datadam-sub000/internal/cache"
	"github.com/KennethLeeJE8/datadam-sub000/internal/classifier"
	"github.com/KennethLeeJE8/datadam-sub000/internal/fuzzy"
	"github.com/KennethLeeJE8/datadam-sub000/internal/kvstore"
	"github.com/KennethLeeJE8/datadam-sub000/internal/logging"
	"github.com/KennethLeeJE8/datadam-sub000/internal/model"
	"github.com/KennethLeeJE8/datadam-sub000/internal/records"
	"github.com/KennethLeeJE8/datadam-sub000/internal/rules"
	"github.com/KennethLeeJE8/datadam-sub000/internal/tagger"
)

// Cache key prefixes. Per-type entries serve direct lookups; batch entries
// keep the raw payload around for future fuzzy passes.
const (
	typeKeyPrefix  = "records:"
	batchKeyPrefix = "batch:"
)

// Engine matches detected fields against the remote record store.
type Engine struct {
	cfg      Config
	admin    *rules.Admin
	store    records.Store
	cache    *cache.Cache
	inflight *cache.Group
	kv       kvstore.Store
	logger   logging.Logger
}

// New wires an Engine. kv may be nil when snapshot persistence is disabled.
func New(cfg Config, admin *rules.Admin, store records.Store, c *cache.Cache, kv kvstore.Store, logger logging.Logger) *Engine {
	if cfg.MaxCandidates == 0 {
		cfg = DefaultConfig()
	}
	return &Engine{
		cfg:      cfg,
		admin:    admin,
		store:    store,
		cache:    c,
		inflight: cache.NewGroup(),
		kv:       kv,
		logger:   logger.With(logging.Field{Key: "component", Value: "engine"}),
	}
}

// Rules exposes the rule administration surface.
func (e *Engine) Rules() *rules.Admin {
	return e.admin
}

// Cache exposes the result cache for stats and explicit clearing.
func (e *Engine) Cache() *cache.Cache {
	return e.cache
}

// resolvedBatch is the per-type record set plus where it came from.
type resolvedBatch struct {
	records []model.Record
	source  model.MatchSource
}

// MatchFieldsToStore groups fields by inferred type, serves cached types,
// fetches the rest with one combined query, and returns ranked candidates
// per field. Remote failures surface in the report's Errors without aborting
// matching for the types already resolved.
func (e *Engine) MatchFieldsToStore(ctx context.Context, fields []model.DetectedField) (*model.MatchReport, error) {
	table := e.admin.Table()
	matcher := rules.NewMatcher(table)

	// Fields arriving from outside the scanner may be unclassified.
	for i := range fields {
		if fields[i].InferredType == "" {
			fields[i].InferredType, fields[i].Confidence = classifier.Classify(&fields[i])
		}
	}

	groups, unmatched := matcher.GroupByType(fields)
	report := &model.MatchReport{Unmatched: unmatched}

	// Cache lookup per type.
	resolved := make(map[string]resolvedBatch)
	var unresolvedTypes []string
	for _, t := range rules.SortedTypes(groups) {
		if recs, ok := e.cache.Get(typeKeyPrefix + t); ok {
			resolved[t] = resolvedBatch{records: recs, source: model.SourceCache}
			continue
		}
		unresolvedTypes = append(unresolvedTypes, t)
	}

	// One combined fetch for everything unresolved, coalesced with any
	// concurrent cycle asking for the same type set.
	if len(unresolvedTypes) > 0 {
		recs, err := e.fetchBatch(ctx, table, groups, unresolvedTypes)
		if err != nil {
			e.logger.Error("remote fetch failed",
				logging.Field{Key: "types", Value: unresolvedTypes},
				logging.Field{Key: "error", Value: err.Error()})
			report.Errors = append(report.Errors, model.MatchError{
				Type:          "fetch_error",
				Message:       err.Error(),
				AffectedTypes: unresolvedTypes,
			})
		} else {
			for _, t := range unresolvedTypes {
				e.cache.Set(typeKeyPrefix+t, recs, e.cfg.TypeTTL)
				resolved[t] = resolvedBatch{records: recs, source: model.SourceRemote}
			}
			e.cache.Set(batchKeyPrefix+strings.Join(unresolvedTypes, ","), recs, e.cfg.BatchTTL)
		}
	}

	// Matching per resolved type.
	missingByType := make(map[string][]model.DetectedField)
	for _, t := range sortedKeys(resolved) {
		batch := resolved[t]
		for _, f := range groups[t] {
			cands := e.matchCandidates(table, t, &f, batch.records)
			if len(cands) == 0 {
				missingByType[t] = append(missingByType[t], f)
				continue
			}
			report.Matches = append(report.Matches, model.MatchResult{
				Field:      f,
				FieldType:  t,
				Candidates: cands,
				Confidence: e.blendConfidence(&f, cands),
				Source:     batch.source,
			})
		}
	}

	for _, t := range sortedKeys(missingByType) {
		report.MissingData = append(report.MissingData, model.MissingData{
			FieldType: t,
			Fields:    missingByType[t],
		})
	}

	e.logger.Info("match cycle complete",
		logging.Field{Key: "fields", Value: len(fields)},
		logging.Field{Key: "matches", Value: len(report.Matches)},
		logging.Field{Key: "unmatched", Value: len(report.Unmatched)},
		logging.Field{Key: "errors", Value: len(report.Errors)})

	return report, nil
}

// fetchBatch issues the combined remote query for the unresolved types,
// deduplicated through the in-flight group.
func (e *Engine) fetchBatch(ctx context.Context, table *rules.Table, groups map[string][]model.DetectedField, unresolvedTypes []string) ([]model.Record, error) {
	var backing []string
	seenBacking := make(map[string]struct{})
	var texts []string
	for _, t := range unresolvedTypes {
		for _, b := range table.BackingFields(t) {
			if _, ok := seenBacking[b]; !ok {
				seenBacking[b] = struct{}{}
				backing = append(backing, b)
			}
		}
		for _, f := range groups[t] {
			texts = append(texts, f.SignalTexts()...)
		}
	}

	batchKey := strings.Join(unresolvedTypes, ",")
	recs, shared, err := e.inflight.Do(ctx, batchKey, func() ([]model.Record, error) {
		return e.store.Query(ctx, model.RecordQuery{
			BackingFields: backing,
			SearchTags:    tagger.Tags(texts),
			Limit:         e.cfg.QueryLimit,
		})
	})
	if shared {
		e.logger.Debug("coalesced remote fetch", logging.Field{Key: "batch", Value: batchKey})
	}
	return recs, err
}

// matchCandidates merges the traditional backing-field lookup with the fuzzy
// tag pass, de-duplicating by (value, record) with traditional winning, and
// truncates to the ranked top MaxCandidates.
func (e *Engine) matchCandidates(table *rules.Table, fieldType string, f *model.DetectedField, recs []model.Record) []model.Candidate {
	backing := table.BackingFields(fieldType)

	type candKey struct{ value, recordID string }
	best := make(map[candKey]model.Candidate)
	var order []candKey

	add := func(c model.Candidate) {
		k := candKey{c.Value, c.RecordID}
		if prev, ok := best[k]; ok {
			// Traditional beats fuzzy; otherwise keep the higher score.
			if c.Score > prev.Score {
				best[k] = c
			}
			return
		}
		best[k] = c
		order = append(order, k)
	}

	// Traditional: direct backing-field lookup.
	for _, rec := range recs {
		for _, b := range backing {
			if v := rec.Content[b]; v != "" {
				add(model.Candidate{
					Value:       v,
					RecordID:    rec.ID,
					RecordTitle: rec.Title,
					Score:       e.cfg.TraditionalScore,
					Kind:        model.MatchTraditional,
					CreatedAt:   rec.CreatedAt,
				})
			}
		}
	}

	// Fuzzy: tag similarity against the field's own search tags.
	searchTags := tagger.Tags(f.SignalTexts())
	for _, m := range fuzzy.FindMatches(recs, searchTags, e.cfg.FuzzyThreshold) {
		v := fillValue(m.Record, backing)
		if v == "" {
			continue
		}
		add(model.Candidate{
			Value:       v,
			RecordID:    m.Record.ID,
			RecordTitle: m.Record.Title,
			Score:       m.Score,
			Kind:        model.MatchFuzzy,
			MatchedTag:  m.MatchedTag,
			CreatedAt:   m.Record.CreatedAt,
		})
	}

	out := make([]model.Candidate, 0, len(order))
	for _, k := range order {
		out = append(out, best[k])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > e.cfg.MaxCandidates {
		out = out[:e.cfg.MaxCandidates]
	}
	return out
}

// fillValue picks the value a fuzzy-matched record offers for a field type:
// the first backing field present, else the record's single content value.
func fillValue(rec model.Record, backing []string) string {
	for _, b := range backing {
		if v := rec.Content[b]; v != "" {
			return v
		}
	}
	if len(rec.Content) == 1 {
		for _, v := range rec.Content {
			return v
		}
	}
	return ""
}

// GetSuggestions turns a match result into at most MaxSuggestions UI
// suggestions, sorted by confidence then recency.
func (e *Engine) GetSuggestions(mr model.MatchResult) []model.Suggestion {
	out := make([]model.Suggestion, 0, len(mr.Candidates))
	for _, c := range mr.Candidates {
		label := c.RecordTitle
		if label == "" {
			label = mr.FieldType
		}
		out = append(out, model.Suggestion{
			Value:      c.Value,
			Label:      label,
			Confidence: clamp((mr.Confidence + c.Score) / 2),
			Source:     mr.Source,
			LastUsed:   c.CreatedAt,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].LastUsed.After(out[j].LastUsed)
	})

	if len(out) > e.cfg.MaxSuggestions {
		out = out[:e.cfg.MaxSuggestions]
	}
	return out
}

// SnapshotCache persists the cache through the kv store. Persistence
// failures degrade to a warning.
func (e *Engine) SnapshotCache(ctx context.Context) error {
	if e.kv == nil {
		return nil
	}
	if err := e.cache.Snapshot(ctx, e.kv); err != nil {
		e.logger.Warn("cache snapshot skipped", logging.Field{Key: "error", Value: err.Error()})
		return err
	}
	return nil
}

// RestoreCache loads the persisted cache. Load failures degrade to a cold
// cache.
func (e *Engine) RestoreCache(ctx context.Context) error {
	if e.kv == nil {
		return nil
	}
	if err := e.cache.Restore(ctx, e.kv); err != nil {
		e.logger.Warn("cache restore skipped", logging.Field{Key: "error", Value: err.Error()})
		return err
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
