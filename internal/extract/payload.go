package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/azure-architect/archdiagram/internal/ontology"
)

// ErrNoPayload is returned when input holds no analysis payload.
var ErrNoPayload = errors.New("no analysis payload found")

var (
	jsonFence     = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)\\s*```")
	anyFence      = regexp.MustCompile("```[a-zA-Z0-9_+-]*")
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
)

// Payload is a structured analysis produced by an external vision or
// analysis service.
type Payload struct {
	Services          NameList       `json:"services"`
	Connections       []PayloadLink  `json:"connections,omitempty"`
	Description       string         `json:"description,omitempty"`
	Groups            []PayloadGroup `json:"groups,omitempty"`
	SuggestedServices NameList       `json:"suggested_services,omitempty"`
}

// PayloadLink is a connection between two service names.
type PayloadLink struct {
	From  string `json:"from_service"`
	To    string `json:"to_service"`
	Label string `json:"label,omitempty"`
}

// UnmarshalJSON accepts the key spellings seen in analysis output:
// from_service|from|source|src, to_service|to|target|dst and
// label|type|relationship.
func (l *PayloadLink) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.From = pickString(raw, "from_service", "from", "source", "src")
	l.To = pickString(raw, "to_service", "to", "target", "dst")
	l.Label = pickString(raw, "label", "type", "relationship")
	return nil
}

// PayloadGroup is a container hint. Members are service or group names.
type PayloadGroup struct {
	ID        string         `json:"id"`
	Label     string         `json:"label"`
	GroupType string         `json:"group_type,omitempty"`
	Members   NameList       `json:"members,omitempty"`
	ParentID  string         `json:"parent_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// UnmarshalJSON also accepts camelCase keys and "name"/"type" fallbacks.
func (g *PayloadGroup) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID           string         `json:"id"`
		Label        string         `json:"label"`
		Name         string         `json:"name"`
		GroupType    string         `json:"group_type"`
		GroupTypeAlt string         `json:"groupType"`
		Type         string         `json:"type"`
		Members      NameList       `json:"members"`
		Services     NameList       `json:"services"`
		ParentID     string         `json:"parent_id"`
		ParentAlt    string         `json:"parentId"`
		Metadata     map[string]any `json:"metadata"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*g = PayloadGroup{
		ID:        raw.ID,
		Label:     firstNonEmpty(raw.Label, raw.Name),
		GroupType: firstNonEmpty(raw.GroupType, raw.GroupTypeAlt, raw.Type),
		Members:   append(raw.Members, raw.Services...),
		ParentID:  firstNonEmpty(raw.ParentID, raw.ParentAlt),
		Metadata:  raw.Metadata,
	}
	return nil
}

// NameList decodes a list whose entries are strings or objects carrying a
// name, title or service field.
type NameList []string

// UnmarshalJSON implements json.Unmarshaler.
func (n *NameList) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make(NameList, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal(item, &obj); err == nil {
			if s := pickString(obj, "name", "title", "service", "label"); s != "" {
				out = append(out, s)
			}
		}
	}
	*n = out
	return nil
}

// DecodePayload decodes data as a payload. The object must carry a services
// array.
func DecodePayload(data []byte) (*Payload, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	raw, ok := probe["services"]
	if !ok || !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return nil, fmt.Errorf("decode payload: %w: object has no services array", ErrNoPayload)
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return &p, nil
}

// FindPayload looks for a payload object inside free text. Candidates are the
// whole input, each fenced block and every balanced-brace object found in
// them; fenced blocks are searched first. Candidates are tried largest first,
// each as is, then with trailing commas removed, then with single quotes
// swapped for double quotes.
func FindPayload(text string) (*Payload, error) {
	var candidates []string
	if fenced := jsonFence.FindAllStringSubmatch(text, -1); len(fenced) > 0 {
		for _, f := range fenced {
			block := strings.TrimSpace(f[1])
			candidates = append(candidates, block)
			candidates = append(candidates, balancedObjects(block)...)
		}
	} else {
		stripped := strings.TrimSpace(anyFence.ReplaceAllString(text, ""))
		candidates = append(candidates, strings.TrimSpace(text), stripped)
		candidates = append(candidates, balancedObjects(stripped)...)
		candidates = append(candidates, balancedObjects(text)...)
	}

	seen := make(map[string]bool)
	uniq := candidates[:0]
	for _, c := range candidates {
		if strings.HasPrefix(c, "{") && !seen[c] {
			seen[c] = true
			uniq = append(uniq, c)
		}
	}
	sort.SliceStable(uniq, func(i, j int) bool { return len(uniq[i]) > len(uniq[j]) })

	for _, c := range uniq {
		for _, attempt := range []string{c, trailingComma.ReplaceAllString(c, "$1"), strings.ReplaceAll(c, "'", `"`)} {
			if p, err := DecodePayload([]byte(attempt)); err == nil {
				return p, nil
			}
		}
	}
	return nil, ErrNoPayload
}

// balancedObjects returns every substring of s that starts at a '{' and ends
// at its matching '}', in one pass. Braces inside double-quoted strings of an
// open object do not count; unmatched braces are skipped.
func balancedObjects(s string) []string {
	var out []string
	var open []int
	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if len(open) > 0 {
				inString = true
			}
		case '{':
			open = append(open, i)
		case '}':
			if n := len(open); n > 0 {
				out = append(out, s[open[n-1]:i+1])
				open = open[:n-1]
			}
		}
	}
	return out
}

// expansions split umbrella names into the services they usually stand for.
var expansions = map[string][]string{
	"azure cognitive services": {"Azure Cognitive Services - Text Analytics", "Azure Cognitive Services - Translator", "Azure Cognitive Services - Vision"},
	"cognitive services":       {"Azure Cognitive Services - Text Analytics", "Azure Cognitive Services - Translator", "Azure Cognitive Services - Vision"},
	"ai search":                {"Azure AI Search (Cognitive Search)"},
	"azure ai search":          {"Azure AI Search (Cognitive Search)"},
	"ai document intelligence": {"Azure AI Document Intelligence (Form Recognizer)"},
	"document intelligence":    {"Azure AI Document Intelligence (Form Recognizer)"},
}

// ExpandServices replaces umbrella names with their component services and
// drops repeats, keeping first-seen order.
func ExpandServices(names []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, n := range names {
		parts, ok := expansions[ontology.Normalize(n)]
		if !ok {
			parts = []string{n}
		}
		for _, p := range parts {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

func pickString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
