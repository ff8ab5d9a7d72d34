// Package i18n holds the process-wide translation dictionary and the
// currently selected site language.
package i18n

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

const DefaultLanguage = "ru"

var ErrUnknownLanguage = errors.New("unknown language")

//go:embed translations.yaml
var embeddedTranslations []byte

// Store maps a language code to a flat key → string dictionary.
type Store struct {
	mu       sync.RWMutex
	language string
	dict     map[string]map[string]string
}

// Parse builds a Store from a YAML document of the form lang: {key: text}.
func Parse(data []byte) (*Store, error) {
	dict := make(map[string]map[string]string)
	if err := yaml.Unmarshal(data, &dict); err != nil {
		return nil, fmt.Errorf("parse translations: %w", err)
	}
	if len(dict) == 0 {
		return nil, errors.New("translations are empty")
	}

	s := &Store{dict: dict, language: DefaultLanguage}
	if _, ok := dict[DefaultLanguage]; !ok {
		s.language = s.Languages()[0]
	}
	return s, nil
}

// Load reads translations from path, or the embedded dictionary when path
// is empty.
func Load(path string) (*Store, error) {
	if path == "" {
		return Parse(embeddedTranslations)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read translations: %w", err)
	}
	return Parse(data)
}

func (s *Store) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

func (s *Store) SetLanguage(lang string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.dict[lang]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	s.language = lang
	return nil
}

// Has reports whether lang is a known language.
func (s *Store) Has(lang string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.dict[lang]
	return ok
}

// Resolve returns lang when known, the current language otherwise.
func (s *Store) Resolve(lang string) string {
	if lang != "" && s.Has(lang) {
		return lang
	}
	return s.Language()
}

// T looks up key in lang. A missing key yields the key itself.
func (s *Store) T(lang, key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.dict[lang][key]; ok {
		return v
	}
	return key
}

// Lookup is T with an explicit found flag.
func (s *Store) Lookup(lang, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.dict[lang][key]
	return v, ok
}

// Dictionary returns a copy of the dictionary for lang.
func (s *Store) Dictionary(lang string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.dict[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	out := make(map[string]string, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out, nil
}

func (s *Store) Languages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	langs := make([]string, 0, len(s.dict))
	for l := range s.dict {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}
