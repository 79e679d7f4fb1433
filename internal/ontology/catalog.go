package ontology

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// File names read by Load from the root of the supplied file system.
const (
	CatalogFile       = "catalog.yaml"
	AliasFile         = "aliases.yaml"
	ResourceTypesFile = "resource_types.yaml"
)

// ErrUnknownTitle is returned when an alias or resource-type entry targets an
// icon title that the catalog does not define.
var ErrUnknownTitle = errors.New("unknown icon title")

//go:embed data/*.yaml
var embedded embed.FS

type catalogFile struct {
	Categories []struct {
		Name     string          `yaml:"name"`
		Services []ServiceRecord `yaml:"services"`
	} `yaml:"categories"`
}

type aliasFile struct {
	Aliases map[string]string `yaml:"aliases"`
}

type resourceTypeFile struct {
	ResourceTypes []ResourceTypeMapping `yaml:"resourceTypes"`
}

// Catalog is the read-only icon ontology: service records, the alias table and
// the resource-type table. It is safe for concurrent use once loaded.
type Catalog struct {
	services   []ServiceRecord
	categories []Category
	byTitle    map[string]int
	byID       map[string]int

	aliases   map[string]string
	aliasKeys []string

	resourceTypes []ResourceTypeMapping
	byType        map[string]int
	byIconTitle   map[string]int
	byTerraform   map[string]int
}

var loadDefault = sync.OnceValue(func() *Catalog {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(fmt.Sprintf("ontology: embedded data: %v", err))
	}
	c, err := Load(sub)
	if err != nil {
		panic(fmt.Sprintf("ontology: embedded data: %v", err))
	}
	return c
})

// Default returns the catalog built from the embedded reference data. It
// panics if that data is corrupt.
func Default() *Catalog {
	return loadDefault()
}

// Load reads and cross-checks the three reference tables from fsys.
func Load(fsys fs.FS) (*Catalog, error) {
	var cf catalogFile
	if err := decodeFile(fsys, CatalogFile, &cf); err != nil {
		return nil, err
	}
	var af aliasFile
	if err := decodeFile(fsys, AliasFile, &af); err != nil {
		return nil, err
	}
	var rf resourceTypeFile
	if err := decodeFile(fsys, ResourceTypesFile, &rf); err != nil {
		return nil, err
	}

	c := &Catalog{
		byTitle:     make(map[string]int),
		byID:        make(map[string]int),
		aliases:     make(map[string]string),
		byType:      make(map[string]int),
		byIconTitle: make(map[string]int),
		byTerraform: make(map[string]int),
	}
	for _, cat := range cf.Categories {
		if strings.TrimSpace(cat.Name) == "" {
			return nil, fmt.Errorf("%s: category with empty name", CatalogFile)
		}
		section := Category{Name: cat.Name}
		for _, s := range cat.Services {
			if s.ID == "" || s.Title == "" {
				return nil, fmt.Errorf("%s: category %q: service needs both id and title", CatalogFile, cat.Name)
			}
			key := Normalize(s.Title)
			if _, dup := c.byTitle[key]; dup {
				return nil, fmt.Errorf("%s: duplicate title %q", CatalogFile, s.Title)
			}
			if _, dup := c.byID[s.ID]; dup {
				return nil, fmt.Errorf("%s: duplicate id %q", CatalogFile, s.ID)
			}
			s.Category = cat.Name
			if s.IconPath == "" {
				s.IconPath = "/icons/azure/" + Slug(cat.Name) + "/" + s.ID + ".svg"
			}
			c.byTitle[key] = len(c.services)
			c.byID[s.ID] = len(c.services)
			c.services = append(c.services, s)
			section.Titles = append(section.Titles, s.Title)
		}
		c.categories = append(c.categories, section)
	}
	if len(c.services) == 0 {
		return nil, fmt.Errorf("%s: no services defined", CatalogFile)
	}

	for phrase, title := range af.Aliases {
		key := Normalize(phrase)
		if key == "" {
			return nil, fmt.Errorf("%s: empty alias for %q", AliasFile, title)
		}
		if _, ok := c.byTitle[Normalize(title)]; !ok {
			return nil, fmt.Errorf("%s: alias %q -> %q: %w", AliasFile, phrase, title, ErrUnknownTitle)
		}
		c.aliases[key] = title
		c.aliasKeys = append(c.aliasKeys, key)
	}
	sort.Strings(c.aliasKeys)

	for i, m := range rf.ResourceTypes {
		if m.ResourceType == "" {
			return nil, fmt.Errorf("%s: entry %d has no resourceType", ResourceTypesFile, i)
		}
		title := Normalize(m.IconTitle)
		if _, ok := c.byTitle[title]; !ok {
			return nil, fmt.Errorf("%s: %s -> %q: %w", ResourceTypesFile, m.ResourceType, m.IconTitle, ErrUnknownTitle)
		}
		key := strings.ToLower(m.ResourceType)
		if _, dup := c.byType[key]; dup {
			return nil, fmt.Errorf("%s: duplicate resource type %s", ResourceTypesFile, m.ResourceType)
		}
		c.byType[key] = len(c.resourceTypes)
		if _, seen := c.byIconTitle[title]; !seen {
			c.byIconTitle[title] = len(c.resourceTypes)
		}
		if m.TerraformType != "" {
			c.byTerraform[m.TerraformType] = len(c.resourceTypes)
		}
		c.resourceTypes = append(c.resourceTypes, m)
	}
	return c, nil
}

func decodeFile(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// Services returns every record in catalog order.
func (c *Catalog) Services() []ServiceRecord {
	out := make([]ServiceRecord, len(c.services))
	copy(out, c.services)
	return out
}

// ByTitle looks a record up by icon title, ignoring case and spacing.
func (c *Catalog) ByTitle(title string) (ServiceRecord, bool) {
	i, ok := c.byTitle[Normalize(title)]
	if !ok {
		return ServiceRecord{}, false
	}
	return c.services[i], true
}

// ByID looks a record up by its stable id.
func (c *Catalog) ByID(id string) (ServiceRecord, bool) {
	i, ok := c.byID[id]
	if !ok {
		return ServiceRecord{}, false
	}
	return c.services[i], true
}

// Alias returns the icon title for an exact alias phrase.
func (c *Catalog) Alias(phrase string) (string, bool) {
	t, ok := c.aliases[Normalize(phrase)]
	return t, ok
}

// Aliases returns the normalized alias phrases, sorted.
func (c *Catalog) Aliases() []string {
	out := make([]string, len(c.aliasKeys))
	copy(out, c.aliasKeys)
	return out
}

// ResourceType finds a mapping either by its resource type (case-insensitive)
// or by the icon title it maps to.
func (c *Catalog) ResourceType(key string) (ResourceTypeMapping, bool) {
	if i, ok := c.byType[strings.ToLower(strings.TrimSpace(key))]; ok {
		return c.resourceTypes[i], true
	}
	if i, ok := c.byIconTitle[Normalize(key)]; ok {
		return c.resourceTypes[i], true
	}
	return ResourceTypeMapping{}, false
}

// ByTerraformType finds a mapping by its azurerm resource type.
func (c *Catalog) ByTerraformType(t string) (ResourceTypeMapping, bool) {
	i, ok := c.byTerraform[strings.ToLower(strings.TrimSpace(t))]
	if !ok {
		return ResourceTypeMapping{}, false
	}
	return c.resourceTypes[i], true
}

// ResourceTypes returns the resource-type table in file order.
func (c *Catalog) ResourceTypes() []ResourceTypeMapping {
	out := make([]ResourceTypeMapping, len(c.resourceTypes))
	copy(out, c.resourceTypes)
	return out
}

// Titles returns the ontology index: icon titles grouped by category.
func (c *Catalog) Titles() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = Category{Name: cat.Name, Titles: append([]string(nil), cat.Titles...)}
	}
	return out
}
