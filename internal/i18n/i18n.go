// Package i18n serves localized strings from YAML language packs.
package i18n

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sync"

	"oublog-audit/internal/conf"
	"oublog-audit/internal/domain/event"

	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// ProviderSet is i18n providers.
var ProviderSet = wire.NewSet(NewStringManager, wire.Bind(new(event.Localizer), new(*StringManager)))

// ErrStringNotFound is returned for a key missing from the component's pack.
var ErrStringNotFound = errors.New("string not found")

// Compile-time interface check
var _ event.Localizer = (*StringManager)(nil)

var placeholder = regexp.MustCompile(`\{\$a(?:->(\w+))?\}`)

// StringManager looks up strings by (key, component) for one language.
type StringManager struct {
	mu      sync.RWMutex
	lang    string
	strings map[string]map[string]string
	log     *log.Helper
}

// NewStringManager loads <lang_dir>/<lang>.yaml.
func NewStringManager(c *conf.Site, logger log.Logger) (*StringManager, error) {
	if c == nil {
		c = &conf.Site{}
	}
	lang := c.Lang
	if lang == "" {
		lang = "en"
	}
	m := &StringManager{lang: lang, log: log.NewHelper(logger)}
	if err := m.Load(filepath.Join(c.LangDir, lang+".yaml")); err != nil {
		return nil, err
	}
	return m, nil
}

// NewStaticStringManager builds a manager from an in-memory pack.
func NewStaticStringManager(lang string, strings map[string]map[string]string) *StringManager {
	return &StringManager{lang: lang, strings: strings, log: log.NewHelper(log.DefaultLogger)}
}

// Load replaces the loaded strings with the contents of path.
func (m *StringManager) Load(path string) error {
	c := config.New(config.WithSource(file.NewSource(path)))
	defer c.Close()

	if err := c.Load(); err != nil {
		return fmt.Errorf("load language pack %s: %w", path, err)
	}
	strings := make(map[string]map[string]string)
	if err := c.Scan(&strings); err != nil {
		return fmt.Errorf("scan language pack %s: %w", path, err)
	}

	m.mu.Lock()
	m.strings = strings
	m.mu.Unlock()

	m.log.Infof("loaded language pack %s (%d components)", m.lang, len(strings))
	return nil
}

// Lang returns the language code of the loaded pack.
func (m *StringManager) Lang() string {
	return m.lang
}

// GetString returns the string stored under key for component.
func (m *StringManager) GetString(key, component string) (string, error) {
	m.mu.RLock()
	s, ok := m.strings[component][key]
	m.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: [[%s,%s]]", ErrStringNotFound, key, component)
	}
	return s, nil
}

// GetStringA returns the string with {$a} or {$a->field} placeholders filled from a.
// a is either a scalar or a map[string]any.
func (m *StringManager) GetStringA(key, component string, a any) (string, error) {
	s, err := m.GetString(key, component)
	if err != nil {
		return "", err
	}
	return placeholder.ReplaceAllStringFunc(s, func(match string) string {
		field := placeholder.FindStringSubmatch(match)[1]
		if field == "" {
			return fmt.Sprint(a)
		}
		if fields, ok := a.(map[string]any); ok {
			if v, ok := fields[field]; ok {
				return fmt.Sprint(v)
			}
		}
		return match
	}), nil
}
