package tags

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/url"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

// ParamSort is the query parameter carrying the serialized sort tag.
const ParamSort = "sort"

// Built-in group names.
const (
	GroupSchematicSearch = "schematic-search"
	GroupSchematicUpload = "schematic-upload"
	GroupMapSearch       = "map-search"
	GroupPostSearch      = "post-search"
)

// Categories that only make sense when searching, not when tagging an upload.
var searchOnlyCategories = []string{"name", "size"} //nolint:gochecknoglobals // Static table.

//go:embed library.yaml
var builtinLibrary []byte

// SortOption is a named ordering the server understands.
type SortOption struct {
	Name        string
	DisplayName string
	Tag         TagQuery
}

// Library is the process-wide, read-only table of catalog groups and sort options.
type Library struct {
	groups map[string]*Catalog
	order  []string
	sorts  []SortOption
}

type libraryFile struct {
	Sorts []struct {
		Name        string `yaml:"name"`
		DisplayName string `yaml:"display_name"`
		Tag         string `yaml:"tag"`
	} `yaml:"sorts"`
	Groups []struct {
		Name       string         `yaml:"name"`
		Categories []categoryFile `yaml:"categories"`
	} `yaml:"groups"`
}

type categoryFile struct {
	Name        string   `yaml:"name"`
	DisplayName string   `yaml:"display_name"`
	Color       string   `yaml:"color"`
	FreeText    bool     `yaml:"free_text"`
	Choices     []Choice `yaml:"choices"`
}

var (
	defaultLibrary     *Library //nolint:gochecknoglobals // Built once from the embedded table.
	defaultLibraryErr  error    //nolint:gochecknoglobals // Result of building defaultLibrary.
	defaultLibraryOnce sync.Once
)

// DefaultLibrary returns the built-in library. It is built once and shared.
func DefaultLibrary() *Library {
	defaultLibraryOnce.Do(func() {
		defaultLibrary, defaultLibraryErr = LoadLibrary(bytes.NewReader(builtinLibrary))
	})
	if defaultLibraryErr != nil {
		panic(fmt.Sprintf("built-in tag library is invalid: %v", defaultLibraryErr))
	}
	return defaultLibrary
}

// LoadLibrary decodes a YAML library. A schematic-search group implies a derived
// schematic-upload group unless the file defines one.
func LoadLibrary(r io.Reader) (*Library, error) {
	var file libraryFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: decoding library: %v", ErrInvalidCatalog, err)
	}

	lib := &Library{groups: make(map[string]*Catalog, len(file.Groups))}
	for _, g := range file.Groups {
		if _, dup := lib.groups[g.Name]; dup || g.Name == "" {
			return nil, fmt.Errorf("%w: bad or duplicate group name %q", ErrInvalidCatalog, g.Name)
		}
		cats := make([]Category, 0, len(g.Categories))
		for _, cf := range g.Categories {
			cats = append(cats, cf.category())
		}
		catalog, err := NewCatalog(cats...)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", g.Name, err)
		}
		lib.add(g.Name, catalog)
	}

	if search, ok := lib.groups[GroupSchematicSearch]; ok {
		if _, defined := lib.groups[GroupSchematicUpload]; !defined {
			lib.add(GroupSchematicUpload, search.Without(searchOnlyCategories...))
		}
	}

	for _, s := range file.Sorts {
		t, err := Parse(s.Tag, nil)
		if err != nil {
			return nil, fmt.Errorf("sort %q: %w", s.Name, err)
		}
		if _, exists := lib.Sort(s.Name); exists || s.Name == "" {
			return nil, fmt.Errorf("%w: bad or duplicate sort %q", ErrInvalidCatalog, s.Name)
		}
		lib.sorts = append(lib.sorts, SortOption{Name: s.Name, DisplayName: s.DisplayName, Tag: t})
	}
	return lib, nil
}

func (cf categoryFile) category() Category {
	kind := KindEnumerated
	if cf.FreeText {
		kind = KindFreeText
	}
	return Category{
		Name:        cf.Name,
		DisplayName: cf.DisplayName,
		Color:       cf.Color,
		Kind:        kind,
		Choices:     cf.Choices,
	}
}

func (l *Library) add(name string, c *Catalog) {
	l.groups[name] = c
	l.order = append(l.order, name)
}

// Group returns the named catalog.
func (l *Library) Group(name string) (*Catalog, error) {
	c, ok := l.groups[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
	}
	return c, nil
}

// GroupNames returns group names in definition order.
func (l *Library) GroupNames() []string {
	return slices.Clone(l.order)
}

// Sort returns the named sort option.
func (l *Library) Sort(name string) (SortOption, bool) {
	i := slices.IndexFunc(l.sorts, func(s SortOption) bool { return s.Name == name })
	if i < 0 {
		return SortOption{}, false
	}
	return l.sorts[i], true
}

// Sorts returns the sort options in definition order.
func (l *Library) Sorts() []SortOption {
	return slices.Clone(l.sorts)
}

// DefaultSort returns the first sort option, or the zero value when none exist.
func (l *Library) DefaultSort() SortOption {
	if len(l.sorts) == 0 {
		return SortOption{}
	}
	return l.sorts[0]
}

// QueryParams combines a filter set and a sort choice into loader parameters.
// A zero SortOption adds no sort parameter.
func QueryParams(filters *FilterSet, sort SortOption) url.Values {
	params := url.Values{}
	if filters != nil {
		params = filters.Params()
	}
	if sort.Name != "" {
		params.Set(ParamSort, sort.Tag.String())
	}
	return params
}
