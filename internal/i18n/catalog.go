// Package i18n loads the translation catalogs used by the meeting card.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when a requested locale has no catalog.
const DefaultLocale = "en"

const (
	KeyHeaderLabel     = "meet.header.label"
	KeyMessagePretext  = "meet.message.pretext"
	KeyMessageTitle    = "meet.message.title"
	KeyMessageSubtitle = "meet.message.subtitle"
	KeyMessageButton   = "meet.message.button"
)

//go:embed locales/*.yaml
var embeddedFS embed.FS

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

type Catalog struct {
	locales  map[string]map[string]string
	tags     []language.Tag
	names    []string
	matcher  language.Matcher
	fallback map[string]string
}

// LoadEmbedded loads the catalogs shipped with the binary.
func LoadEmbedded() (*Catalog, error) {
	return LoadFromFS(embeddedFS, "locales")
}

func MustLoadEmbedded() *Catalog {
	c, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	return c
}

func LoadFromFS(fsys fs.FS, dir string) (*Catalog, error) {
	paths, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("glob catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files in %s", dir)
	}
	sort.Strings(paths)

	c := &Catalog{locales: map[string]map[string]string{}}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		locale := strings.TrimSpace(file.Locale)
		if locale == "" {
			return nil, fmt.Errorf("catalog %s: locale is required", p)
		}
		if want := strings.TrimSuffix(path.Base(p), ".yaml"); locale != want {
			return nil, fmt.Errorf("catalog %s: locale %q must match file name", p, locale)
		}
		if _, dup := c.locales[locale]; dup {
			return nil, fmt.Errorf("catalog %s: locale %q already loaded", p, locale)
		}
		if len(file.Messages) == 0 {
			return nil, fmt.Errorf("catalog %s: messages are required", p)
		}
		c.locales[locale] = file.Messages
	}

	fallback, ok := c.locales[DefaultLocale]
	if !ok {
		return nil, fmt.Errorf("default locale %s has no catalog", DefaultLocale)
	}
	c.fallback = fallback

	// The default locale goes first so the matcher falls back to it.
	c.names = append(c.names, DefaultLocale)
	for locale := range c.locales {
		if locale != DefaultLocale {
			c.names = append(c.names, locale)
		}
	}
	sort.Strings(c.names[1:])
	for _, name := range c.names {
		tag, err := language.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("parse locale %q: %w", name, err)
		}
		c.tags = append(c.tags, tag)
	}
	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

// Locales lists loaded locales, default first.
func (c *Catalog) Locales() []string {
	return append([]string(nil), c.names...)
}

// Resolve maps a user locale such as "fr-CA" or "pt" to a loaded catalog.
func (c *Catalog) Resolve(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return DefaultLocale
	}
	if _, ok := c.locales[locale]; ok {
		return locale
	}
	_, idx := language.MatchStrings(c.matcher, locale)
	if idx < 0 || idx >= len(c.names) {
		return DefaultLocale
	}
	return c.names[idx]
}

func (c *Catalog) Localizer(locale string) *Localizer {
	resolved := c.Resolve(locale)
	return &Localizer{locale: resolved, messages: c.locales[resolved], fallback: c.fallback}
}

type Localizer struct {
	locale   string
	messages map[string]string
	fallback map[string]string
}

func (l *Localizer) Locale() string {
	return l.locale
}

// T returns the message for key, falling back to the default locale and then
// to the key itself.
func (l *Localizer) T(key string) string {
	if v, ok := l.messages[key]; ok {
		return v
	}
	if v, ok := l.fallback[key]; ok {
		return v
	}
	return key
}
