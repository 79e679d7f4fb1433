package extract

import (
	"regexp"
	"strings"

	"github.com/azure-architect/archdiagram/internal/diagram"
	"github.com/azure-architect/archdiagram/internal/iac"
	"github.com/azure-architect/archdiagram/internal/ontology"
)

// maxFragmentWords bounds how far from a verb or arrow an endpoint is looked for.
const maxFragmentWords = 4

// LabelDependsOn labels connections taken from IaC dependency declarations.
const LabelDependsOn = "depends on"

var (
	connectionVerb = regexp.MustCompile(`\b(connects? to|talks? to|uses|calls|invokes|queries|triggers|reads from|writes to|sends (?:data |events |messages )?to|publishes to|subscribes to|routes to|forwards to|pulls from|pushes to|streams to|stores (?:data )?in|depends on|authenticates (?:with|against)|integrates with)\b`)
	arrowToken     = regexp.MustCompile(`<-->|<->|-->|->|→|⟶|=>`)
	sentenceBreak  = regexp.MustCompile(`[.;:!?\n]`)
)

// endpoint is a resolved service seen by the fragment matcher.
type endpoint struct {
	id    string
	names []string
}

// Connections finds connections between the given resolved services. Verb
// phrases ("X uses Y"), arrow chains ("X -> Y -> Z") and IaC dependsOn
// declarations are recognised. Each side is matched against the service
// titles by word containment; only pairs of two distinct known services are
// kept, deduplicated by direction.
func (e *Extractor) Connections(text string, services []ontology.ServiceRecord) []diagram.Connection {
	if len(services) < 2 {
		return nil
	}
	eps := make([]endpoint, len(services))
	for i, s := range services {
		title := ontology.Normalize(s.Title)
		eps[i] = endpoint{id: s.ID, names: uniqueNames(
			title,
			ontology.StripVendorPrefix(title),
			strings.ReplaceAll(s.ID, "-", " "),
		)}
	}

	var out []diagram.Connection
	seen := make(map[[2]string]bool)
	add := func(from, to, label string) {
		if from == "" || to == "" || from == to || seen[[2]string{from, to}] {
			return
		}
		seen[[2]string{from, to}] = true
		out = append(out, diagram.Connection{From: from, To: to, Label: label})
	}

	folded := ontology.Fold(text)
	for _, m := range connectionVerb.FindAllStringSubmatchIndex(folded, -1) {
		left := lastWords(clauseBefore(folded, m[0]), maxFragmentWords)
		right := firstWords(clauseAfter(folded, m[1]), maxFragmentWords)
		add(matchNearest(left, eps, true), matchNearest(right, eps, false), folded[m[2]:m[3]])
	}

	for _, line := range strings.Split(folded, "\n") {
		arrows := arrowToken.FindAllStringIndex(line, -1)
		if len(arrows) == 0 {
			continue
		}
		prev := 0
		for i, a := range arrows {
			segEnd := len(line)
			if i+1 < len(arrows) {
				segEnd = arrows[i+1][0]
			}
			left := lastWords(line[prev:a[0]], maxFragmentWords)
			right := firstWords(line[a[1]:segEnd], maxFragmentWords)
			from, to := matchNearest(left, eps, true), matchNearest(right, eps, false)
			if tok := line[a[0]:a[1]]; tok == "<-->" || tok == "<->" {
				add(from, to, "bidirectional")
			} else {
				add(from, to, "")
			}
			prev = a[1]
		}
	}

	e.declarationConnections(text, services, add)
	return out
}

func (e *Extractor) declarationConnections(text string, services []ontology.ServiceRecord, add func(from, to, label string)) {
	decls := iac.Parse(text)
	if len(decls) == 0 {
		return
	}
	byTitle := make(map[string]string, len(services))
	for _, s := range services {
		byTitle[ontology.Normalize(s.Title)] = s.ID
	}
	serviceFor := make(map[string]string, len(decls))
	for _, d := range decls {
		var m ontology.ResourceTypeMapping
		var ok bool
		if d.Language == iac.Terraform {
			m, ok = e.catalog.ByTerraformType(d.Type)
		} else {
			m, ok = e.catalog.ResourceType(d.Type)
		}
		if ok {
			serviceFor[d.Key()] = byTitle[ontology.Normalize(m.IconTitle)]
		}
	}
	for _, d := range decls {
		for _, dep := range d.DependsOn {
			add(serviceFor[d.Key()], serviceFor[dep], LabelDependsOn)
		}
	}
}

// matchNearest finds the service named in a fragment. Word windows are tried
// starting next to the verb: from the end of a left fragment, from the start
// of a right one. Longer windows win at the same position.
func matchNearest(words []string, eps []endpoint, fromEnd bool) string {
	n := len(words)
	for off := 0; off < n; off++ {
		for size := n - off; size >= 1; size-- {
			var window []string
			if fromEnd {
				window = words[n-off-size : n-off]
			} else {
				window = words[off : off+size]
			}
			if id := matchWindow(strings.Join(window, " "), eps); id != "" {
				return id
			}
		}
	}
	return ""
}

// matchWindow checks bidirectional containment between a phrase and each
// service name. Short phrases only match whole names.
func matchWindow(phrase string, eps []endpoint) string {
	for _, ep := range eps {
		for _, name := range ep.names {
			if phrase == name || ontology.ContainsPhrase(phrase, name) {
				return ep.id
			}
			if len(phrase) >= 4 && !phraseStops[phrase] && ontology.ContainsPhrase(name, phrase) {
				return ep.id
			}
		}
	}
	return ""
}

func clauseBefore(s string, end int) string {
	start := 0
	if locs := sentenceBreak.FindAllStringIndex(s[:end], -1); len(locs) > 0 {
		start = locs[len(locs)-1][1]
	}
	return s[start:end]
}

func clauseAfter(s string, start int) string {
	rest := s[start:]
	if loc := sentenceBreak.FindStringIndex(rest); loc != nil {
		return rest[:loc[0]]
	}
	return rest
}

func lastWords(s string, n int) []string {
	w := ontology.Words(s)
	if len(w) > n {
		w = w[len(w)-n:]
	}
	return w
}

func firstWords(s string, n int) []string {
	w := ontology.Words(s)
	if len(w) > n {
		w = w[:n]
	}
	return w
}

func uniqueNames(names ...string) []string {
	var out []string
	for _, n := range names {
		n = strings.Join(ontology.Words(n), " ")
		if n == "" {
			continue
		}
		dup := false
		for _, o := range out {
			dup = dup || o == n
		}
		if !dup {
			out = append(out, n)
		}
	}
	return out
}
