package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/azure-architect/archdiagram/internal/diagram"
	"github.com/azure-architect/archdiagram/internal/extract"
	"github.com/azure-architect/archdiagram/internal/grouping"
	"github.com/azure-architect/archdiagram/internal/inference"
	"github.com/azure-architect/archdiagram/internal/layout"
	"github.com/azure-architect/archdiagram/internal/logger"
	"github.com/azure-architect/archdiagram/internal/ontology"
	"github.com/azure-architect/archdiagram/internal/registry"
	"github.com/azure-architect/archdiagram/internal/resolver"
	"github.com/azure-architect/archdiagram/internal/result"
)

// Mode selects how input is read.
type Mode string

const (
	// ModeText treats input as free text such as an assistant reply.
	ModeText Mode = "text"
	// ModePayload expects a structured analysis payload, bare or embedded.
	ModePayload Mode = "payload"
	// ModeAuto uses payload mode when input holds a payload, text otherwise.
	ModeAuto Mode = "auto"
)

// ParseMode maps a flag value to a Mode. The empty string means ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeText, ModePayload, ModeAuto:
		return m, nil
	case "":
		return ModeAuto, nil
	default:
		return "", fmt.Errorf("unknown mode %q: use text, payload or auto", s)
	}
}

// Analysis is the architecture built from one input, before layout.
type Analysis struct {
	Architecture *diagram.ParsedArchitecture
	// Absorbed lists connections that became group membership.
	Absorbed []diagram.Connection
	// Unresolved lists names that matched no known service.
	Unresolved  []string
	Suggestions []string
	Warnings    []result.Warning
}

func (an *Analysis) warn(typ, nodeID, msg, suggestion string) {
	an.Warnings = append(an.Warnings, result.Warning{
		Type: typ, Severity: "warning", NodeID: nodeID, Message: msg, Suggestion: suggestion,
	})
}

// DiagramParser turns text or analysis payloads into positioned diagrams.
type DiagramParser struct {
	opts      Options
	log       *slog.Logger
	resolver  *resolver.Resolver
	extractor *extract.Extractor
	layout    *layout.Engine
	reg       *registry.Registry
}

// New returns a parser over catalog c. A nil catalog means the embedded one.
func New(c *ontology.Catalog, opts Options) *DiagramParser {
	if c == nil {
		c = ontology.Default()
	}
	log := logger.OrNop(opts.Logger)
	if opts.Resolver.Logger == nil {
		opts.Resolver.Logger = log
	}
	if opts.Layout.Logger == nil {
		opts.Layout.Logger = log
	}
	return &DiagramParser{
		opts:      opts,
		log:       log,
		resolver:  resolver.New(c, opts.Resolver),
		extractor: extract.New(c),
		layout:    layout.New(opts.Layout),
		reg:       registry.Default,
	}
}

// Parse reads input in the given mode and returns the diagram. Malformed
// input degrades to a partial or empty diagram; an explicit payload mode
// without a payload yields an unsuccessful result. Only an unknown mode is
// an error.
func (p *DiagramParser) Parse(input string, mode Mode) (*result.DiagramResult, error) {
	switch mode {
	case ModeText:
		return p.ParseText(input), nil
	case ModePayload:
		pl, err := extract.FindPayload(input)
		if err != nil {
			return &result.DiagramResult{
				Success: false,
				Nodes:   []diagram.Node{},
				Edges:   []diagram.Edge{},
				Errors: []result.Error{{
					Type: "payload_error", Severity: "error", Message: err.Error(),
					Suggestion: "Provide a JSON object with a services array",
				}},
			}, nil
		}
		return p.ParsePayload(pl), nil
	case ModeAuto, "":
		pl, err := extract.FindPayload(input)
		if err == nil {
			p.log.Debug("payload detected", "services", len(pl.Services))
			return p.ParsePayload(pl), nil
		}
		if !errors.Is(err, extract.ErrNoPayload) {
			p.log.Debug("payload search failed", "reason", err.Error())
		}
		return p.ParseText(input), nil
	default:
		return nil, fmt.Errorf("parse: unknown mode %q", mode)
	}
}

// ParseText runs the text pipeline and lays out the result.
func (p *DiagramParser) ParseText(text string) *result.DiagramResult {
	return p.Render(p.AnalyzeText(text))
}

// ParsePayload runs the payload pipeline and lays out the result.
func (p *DiagramParser) ParsePayload(pl *extract.Payload) *result.DiagramResult {
	return p.Render(p.AnalyzePayload(pl))
}

// AnalyzeText extracts service names and connections from text, resolves
// them, adds inferred connections and resolves groups. Names that do not
// resolve are dropped.
func (p *DiagramParser) AnalyzeText(text string) *Analysis {
	names := p.extractor.Services(text)
	recs, unresolved := p.resolver.ResolveAll(names)
	conns := p.extractor.Connections(text, recs)
	services := diagram.Resolved(recs)
	conns = inference.AddLogicalConnections(services, conns)

	res := grouping.Build(services, conns, grouping.Options{Logger: p.log})
	if len(unresolved) > 0 {
		p.log.Debug("names dropped", "names", unresolved)
	}
	p.log.Debug("text analysed",
		"services", len(res.Architecture.Services),
		"groups", len(res.Architecture.Groups),
		"connections", len(res.Architecture.Connections))
	return &Analysis{
		Architecture: res.Architecture,
		Absorbed:     res.Absorbed,
		Unresolved:   unresolved,
	}
}

// Render lays out an analysis and wraps it in a result. Invariant violations
// are reported as errors; with Options.Governance set, diagrams with groups
// also get a governance view.
func (p *DiagramParser) Render(an *Analysis) *result.DiagramResult {
	a := an.Architecture
	nodes, edges := p.layout.Generate(a)
	if nodes == nil {
		nodes = []diagram.Node{}
	}
	if edges == nil {
		edges = []diagram.Edge{}
	}
	out := &result.DiagramResult{
		Success:     true,
		Nodes:       nodes,
		Edges:       edges,
		Layout:      a.Layout,
		Warnings:    an.Warnings,
		Suggestions: an.Suggestions,
	}
	for _, e := range diagram.Validate(a) {
		out.Errors = append(out.Errors, result.Error{
			Type: e.Type, Severity: e.Severity, NodeID: e.NodeID,
			Message: e.Message, Suggestion: e.Suggestion,
		})
		out.Success = false
	}
	if p.opts.Governance && len(a.Groups) > 0 {
		gov, warns := p.governance(a)
		out.Governance = gov
		out.Warnings = append(out.Warnings, warns...)
	}
	return out
}
