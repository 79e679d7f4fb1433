package resolver

import (
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/azure-architect/archdiagram/internal/logger"
	"github.com/azure-architect/archdiagram/internal/ontology"
)

// DefaultThreshold is the lowest similarity score accepted by the fallback.
const DefaultThreshold = 0.35

// resource-type shaped input: namespace.provider/kind[/subkind...]
var resourceTypeShape = regexp.MustCompile(`^[a-z0-9]+(\.[a-z0-9]+)+/[a-z0-9/]+$`)

// Options configures a Resolver.
type Options struct {
	// Matcher scores the similarity fallback. Nil means TrigramMatcher.
	Matcher Matcher
	// Threshold is the minimum fallback score. Zero means DefaultThreshold.
	Threshold float64
	Logger    *slog.Logger
}

// DefaultOptions returns the resolver defaults.
func DefaultOptions() Options {
	return Options{
		Matcher:   TrigramMatcher{},
		Threshold: DefaultThreshold,
	}
}

// Resolver maps free-form service names to catalog records.
type Resolver struct {
	catalog *ontology.Catalog
	records []ontology.ServiceRecord
	opts    Options
	log     *slog.Logger

	mu     sync.Mutex
	titles []string
}

// New returns a resolver over c.
func New(c *ontology.Catalog, opts Options) *Resolver {
	if opts.Matcher == nil {
		opts.Matcher = TrigramMatcher{}
	}
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	return &Resolver{catalog: c, records: c.Services(), opts: opts, log: logger.OrNop(opts.Logger)}
}

// Resolve returns the record best matching name. Lookups run in a fixed order
// and the first hit wins: alias table, resource-type table, guarded substring
// match, similarity fallback.
func (r *Resolver) Resolve(name string) (ontology.ServiceRecord, bool) {
	q := ontology.Normalize(name)
	if q == "" {
		return ontology.ServiceRecord{}, false
	}
	if title, ok := r.catalog.Alias(q); ok {
		if rec, ok := r.catalog.ByTitle(title); ok {
			return rec, true
		}
	}
	if m, ok := r.catalog.ResourceType(q); ok {
		if rec, ok := r.catalog.ByTitle(m.IconTitle); ok {
			return rec, true
		}
	}
	if rec, ok := r.substring(q); ok {
		return rec, true
	}
	return r.similar(q)
}

// ResolveAll resolves names in order, keeping the first record per id. Names
// that resolve to nothing are returned separately, deduplicated.
func (r *Resolver) ResolveAll(names []string) (records []ontology.ServiceRecord, unresolved []string) {
	seen := make(map[string]bool)
	missed := make(map[string]bool)
	for _, n := range names {
		rec, ok := r.Resolve(n)
		if !ok {
			key := ontology.Normalize(n)
			if key != "" && !missed[key] {
				missed[key] = true
				unresolved = append(unresolved, n)
			}
			continue
		}
		if seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true
		records = append(records, rec)
	}
	return records, unresolved
}

// Reset drops the memoized title index. The next fallback lookup rebuilds it.
func (r *Resolver) Reset() {
	r.mu.Lock()
	r.titles = nil
	r.mu.Unlock()
}

func (r *Resolver) substring(q string) (ontology.ServiceRecord, bool) {
	for _, rec := range r.records {
		if ontology.Normalize(rec.Title) == q {
			return rec, true
		}
	}
	if len(q) < 4 {
		return ontology.ServiceRecord{}, false
	}

	if resourceTypeShape.MatchString(q) {
		ns, path, _ := strings.Cut(q, "/")
		last := path[strings.LastIndex(path, "/")+1:]
		stem := ns[strings.LastIndex(ns, ".")+1:]
		for _, rec := range r.records {
			t := ontology.Normalize(rec.Title)
			if len(t) <= 8 {
				continue
			}
			compact := strings.ReplaceAll(t, " ", "")
			if (last != "" && strings.Contains(compact, last)) || (stem != "" && strings.Contains(compact, stem)) {
				r.log.Debug("resource type matched by substring", "query", q, "title", rec.Title)
				return rec, true
			}
		}
		return ontology.ServiceRecord{}, false
	}

	if len(q) < 6 {
		return ontology.ServiceRecord{}, false
	}
	for _, rec := range r.records {
		t := ontology.Normalize(rec.Title)
		if len(t) <= 8 {
			continue
		}
		if strings.Contains(t, q) || strings.Contains(q, t) {
			return rec, true
		}
	}
	return ontology.ServiceRecord{}, false
}

func (r *Resolver) similar(q string) (ontology.ServiceRecord, bool) {
	query := stripPunctuation(q)
	if query == "" {
		return ontology.ServiceRecord{}, false
	}
	best, bestScore := "", 0.0
	for _, title := range r.titleIndex() {
		if s := r.opts.Matcher.Score(query, title); s > bestScore {
			best, bestScore = title, s
		}
	}
	if best == "" || bestScore < r.opts.Threshold {
		r.log.Debug("no similar title", "query", q, "score", bestScore)
		return ontology.ServiceRecord{}, false
	}
	r.log.Debug("resolved by similarity", "query", q, "title", best, "score", bestScore)
	return r.catalog.ByTitle(best)
}

// titleIndex returns the deduplicated lowercase title list, building it once.
func (r *Resolver) titleIndex() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.titles != nil {
		return r.titles
	}
	seen := make(map[string]bool)
	titles := []string{}
	for _, cat := range r.catalog.Titles() {
		for _, t := range cat.Titles {
			key := strings.ToLower(t)
			if seen[key] {
				continue
			}
			seen[key] = true
			titles = append(titles, key)
		}
	}
	r.titles = titles
	return titles
}

func stripPunctuation(s string) string {
	return strings.Join(strings.Fields(strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return ' '
		}
		return r
	}, s)), " ")
}
