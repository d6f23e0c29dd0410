package presets

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/chenchenpp/springboot-code-mcp/internal/logging"
	"github.com/chenchenpp/springboot-code-mcp/internal/pom"
)

//go:embed presets.yaml
var builtinBytes []byte

// ErrUnknownTag is returned when a tag names neither a preset nor an alias.
var ErrUnknownTag = errors.New("unknown preset tag")

// Preset binds a symbolic tag to a fixed dependency record.
type Preset struct {
	Tag         string         `yaml:"tag" json:"tag"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Example     string         `yaml:"example,omitempty" json:"example,omitempty"`
	Dependency  pom.Dependency `yaml:"dependency" json:"dependency"`
}

// catalogFile is the on-disk layout of presets.yaml and overlay files.
type catalogFile struct {
	Presets []Preset            `yaml:"presets"`
	Aliases map[string][]string `yaml:"aliases,omitempty"`
}

// Catalog is an immutable, ordered set of presets and aliases. Build it once
// and share the pointer; no method mutates it.
type Catalog struct {
	presets []Preset
	index   map[string]int
	aliases map[string][]string
}

// Builtin returns the catalog embedded in the binary.
func Builtin() (*Catalog, error) {
	f, err := parseCatalog(builtinBytes, "builtin presets")
	if err != nil {
		return nil, err
	}
	return newCatalog(f)
}

// Load returns the built-in catalog merged with the overlay file at
// overlayPath. An empty overlayPath yields the built-in catalog. Overlay
// presets replace built-ins with the same tag in place; new tags are appended.
func Load(overlayPath string, log *zap.Logger) (*Catalog, error) {
	log = logging.OrNop(log)

	base, err := parseCatalog(builtinBytes, "builtin presets")
	if err != nil {
		return nil, err
	}
	if overlayPath == "" {
		return newCatalog(base)
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return nil, fmt.Errorf("reading preset overlay %s: %w", overlayPath, err)
	}
	overlay, err := parseCatalog(data, overlayPath)
	if err != nil {
		return nil, err
	}

	merged := mergeCatalogs(base, overlay, log)
	log.Debug("loaded preset overlay",
		zap.String("path", overlayPath),
		zap.Int("overlay_presets", len(overlay.Presets)),
		zap.Int("total_presets", len(merged.Presets)))
	return newCatalog(merged)
}

// parseCatalog validates data against the schema and decodes it.
func parseCatalog(data []byte, name string) (*catalogFile, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", name, err)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return &f, nil
}

func mergeCatalogs(base, overlay *catalogFile, log *zap.Logger) *catalogFile {
	out := &catalogFile{
		Presets: append([]Preset(nil), base.Presets...),
		Aliases: make(map[string][]string, len(base.Aliases)+len(overlay.Aliases)),
	}
	for name, tags := range base.Aliases {
		out.Aliases[name] = tags
	}

	for _, p := range overlay.Presets {
		replaced := false
		for i, existing := range out.Presets {
			if existing.Tag != p.Tag {
				continue
			}
			if isDowngrade(existing.Dependency.Version, p.Dependency.Version) {
				log.Warn("preset overlay pins an older version",
					zap.String("tag", p.Tag),
					zap.String("builtin", existing.Dependency.Version),
					zap.String("overlay", p.Dependency.Version))
			}
			out.Presets[i] = p
			replaced = true
			break
		}
		if !replaced {
			out.Presets = append(out.Presets, p)
		}
	}

	for name, tags := range overlay.Aliases {
		out.Aliases[name] = tags
	}
	return out
}

// isDowngrade reports whether next is an older semantic version than current.
// Versions that do not parse as semver are never reported.
func isDowngrade(current, next string) bool {
	cv, err := semver.NewVersion(current)
	if err != nil {
		return false
	}
	nv, err := semver.NewVersion(next)
	if err != nil {
		return false
	}
	return nv.LessThan(cv)
}

func newCatalog(f *catalogFile) (*Catalog, error) {
	c := &Catalog{
		presets: make([]Preset, 0, len(f.Presets)),
		index:   make(map[string]int, len(f.Presets)),
		aliases: make(map[string][]string, len(f.Aliases)),
	}

	for _, p := range f.Presets {
		if _, dup := c.index[p.Tag]; dup {
			return nil, fmt.Errorf("duplicate preset tag %q", p.Tag)
		}
		c.index[p.Tag] = len(c.presets)
		c.presets = append(c.presets, p)
	}

	for name, tags := range f.Aliases {
		if _, clash := c.index[name]; clash {
			return nil, fmt.Errorf("alias %q shadows a preset with the same tag", name)
		}
		for _, tag := range tags {
			if _, ok := c.index[tag]; !ok {
				return nil, fmt.Errorf("alias %q references %w %q", name, ErrUnknownTag, tag)
			}
		}
		c.aliases[name] = append([]string(nil), tags...)
	}

	return c, nil
}

// Presets returns the presets in declaration order.
func (c *Catalog) Presets() []Preset {
	return append([]Preset(nil), c.presets...)
}

// Lookup returns the preset for tag. Tags are case-insensitive.
func (c *Catalog) Lookup(tag string) (Preset, bool) {
	i, ok := c.index[normalizeTag(tag)]
	if !ok {
		return Preset{}, false
	}
	return c.presets[i], true
}

// Aliases returns a copy of the alias table.
func (c *Catalog) Aliases() map[string][]string {
	out := make(map[string][]string, len(c.aliases))
	for name, tags := range c.aliases {
		out[name] = append([]string(nil), tags...)
	}
	return out
}

// Tags returns every accepted tag: preset tags in declaration order followed
// by alias names in sorted order.
func (c *Catalog) Tags() []string {
	tags := make([]string, 0, len(c.presets)+len(c.aliases))
	for _, p := range c.presets {
		tags = append(tags, p.Tag)
	}
	names := make([]string, 0, len(c.aliases))
	for name := range c.aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return append(tags, names...)
}

// Resolve expands tags and aliases into dependency records. Each preset
// appears at most once and records come back in catalog order, whatever the
// order of tags.
func (c *Catalog) Resolve(tags []string) ([]pom.Dependency, error) {
	selected := make(map[string]bool)
	for _, raw := range tags {
		tag := normalizeTag(raw)
		if members, ok := c.aliases[tag]; ok {
			for _, m := range members {
				selected[m] = true
			}
			continue
		}
		if _, ok := c.index[tag]; !ok {
			return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownTag, raw, strings.Join(c.Tags(), ", "))
		}
		selected[tag] = true
	}

	deps := make([]pom.Dependency, 0, len(selected))
	for _, p := range c.presets {
		if selected[p.Tag] {
			deps = append(deps, p.Dependency)
		}
	}
	return deps, nil
}

// Selected returns the presets whose tags (directly or via an alias) appear
// in tags, in catalog order. Unknown tags are ignored.
func (c *Catalog) Selected(tags []string) []Preset {
	selected := make(map[string]bool)
	for _, raw := range tags {
		tag := normalizeTag(raw)
		for _, m := range c.aliases[tag] {
			selected[m] = true
		}
		selected[tag] = true
	}
	var out []Preset
	for _, p := range c.presets {
		if selected[p.Tag] {
			out = append(out, p)
		}
	}
	return out
}

func normalizeTag(tag string) string {
	return strings.ToUpper(strings.TrimSpace(tag))
}
