// Package locale holds the display labels of the skill vocabulary and the
// interface strings, in every supported language.
package locale

import (
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DomainSkills       = "skills"
	DomainDifficulties = "difficulties"
	DomainResults      = "results"
	DomainCategories   = "categories"
	DomainUI           = "ui"
)

const (
	KeyYou                 = "you"
	KeyContinuePrompt      = "continue_prompt"
	KeyPromptPlaceholder   = "prompt_placeholder"
	KeyMemoryUpdated       = "memory_updated"
	KeyLanguageInstruction = "language_instruction"

	KeySuccess = "Success"
	KeyFailure = "Failure"
)

const DefaultLanguage = "en"

var ErrUnknownLanguage = errors.New("unknown language")

//go:embed translations.yaml
var translationsYAML []byte

// language -> domain -> key -> label
type translations map[string]map[string]map[string]string

var bundled = func() translations {
	var t translations
	if err := yaml.Unmarshal(translationsYAML, &t); err != nil {
		panic(fmt.Sprintf("locale: invalid bundled translations: %v", err))
	}
	return t
}()

// Languages returns the supported language codes, sorted.
func Languages() []string {
	return slices.Sorted(maps.Keys(bundled))
}

// Manager translates canonical identifiers into one language. It is
// read-only and safe for concurrent use.
type Manager struct {
	language     string
	translations translations
}

// Load returns the manager for language. An empty language selects
// DefaultLanguage.
func Load(language string) (*Manager, error) {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		language = DefaultLanguage
	}
	if _, ok := bundled[language]; !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownLanguage, language, strings.Join(Languages(), ", "))
	}
	return &Manager{language: language, translations: bundled}, nil
}

func (m *Manager) Language() string { return m.language }

// LabelFor translates key within domain, falling back to the key itself.
func (m *Manager) LabelFor(domain, key string) string {
	if label, ok := m.translations[m.language][domain][key]; ok {
		return label
	}
	return key
}

// Aliases maps every label of domain, in every language, to its canonical
// key. It is meant for recognizing localized names in model output.
func (m *Manager) Aliases(domain string) map[string]string {
	aliases := make(map[string]string)
	for _, language := range Languages() {
		for key, label := range m.translations[language][domain] {
			aliases[label] = key
		}
	}
	return aliases
}

// MemoryNotice is the text shown after content was stored as a note.
func (m *Manager) MemoryNotice(content string) string {
	return strings.ReplaceAll(m.LabelFor(DomainUI, KeyMemoryUpdated), "{content}", content)
}

// LanguageInstruction tells the model which language to answer in.
func (m *Manager) LanguageInstruction() string {
	return m.LabelFor(DomainUI, KeyLanguageInstruction)
}
