package prompt

import (
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/doclens/doclens/internal/port"
)

// Parser resolves (group, key) prompt names into rendered text with language
// fallback. Templates live in an explicit registry populated at construction
// time; lookup is a pure function over that registry.
type Parser struct {
	language        string
	defaultLanguage string
	registry        map[string]map[string]map[string]*template.Template
}

// NewParser builds a parser over the built-in locales. If language names a
// locale that is not registered, the parser silently falls back to
// defaultLanguage; construction never fails.
func NewParser(language, defaultLanguage string) *Parser {
	p := &Parser{
		defaultLanguage: defaultLanguage,
		language:        defaultLanguage,
		registry:        map[string]map[string]map[string]*template.Template{},
	}
	for lang, groups := range locales {
		for group, keys := range groups {
			for key, body := range keys {
				if err := p.Register(lang, group, key, body); err != nil {
					// built-in locales are parsed at startup; a broken one is
					// a programming error
					panic(fmt.Sprintf("prompt: bad built-in template %s/%s/%s: %v", lang, group, key, err))
				}
			}
		}
	}
	p.SetLanguage(language)
	return p
}

// Register adds or replaces a template body under (language, group, key).
func (p *Parser) Register(language, group, key, body string) error {
	tmpl, err := template.New(group + "." + key).Option("missingkey=error").Parse(body)
	if err != nil {
		return fmt.Errorf("parse template %s/%s/%s: %w", language, group, key, err)
	}
	if p.registry[language] == nil {
		p.registry[language] = map[string]map[string]*template.Template{}
	}
	if p.registry[language][group] == nil {
		p.registry[language][group] = map[string]*template.Template{}
	}
	p.registry[language][group][key] = tmpl
	return nil
}

// SetLanguage switches the primary language. An unregistered language falls
// back to the default language silently.
func (p *Parser) SetLanguage(language string) {
	if language == "" {
		p.language = p.defaultLanguage
		return
	}
	if _, ok := p.registry[language]; !ok {
		slog.Warn("prompt language not registered, falling back", "language", language, "default", p.defaultLanguage)
		p.language = p.defaultLanguage
		return
	}
	p.language = language
}

// Language returns the effective primary language.
func (p *Parser) Language() string { return p.language }

// Get renders the (group, key) template with vars. Resolution tries the
// primary language first and falls back to the default language; if neither
// has the template it returns port.ErrTemplateNotFound. Unresolved
// placeholders in the chosen template are a substitution error and propagate.
func (p *Parser) Get(group, key string, vars map[string]any) (string, error) {
	if group == "" || key == "" {
		return "", port.ErrTemplateNotFound
	}
	if vars == nil {
		vars = map[string]any{}
	}

	for _, lang := range []string{p.language, p.defaultLanguage} {
		tmpl := p.lookup(lang, group, key)
		if tmpl == nil {
			if lang == p.language && lang != p.defaultLanguage {
				slog.Debug("template missing, trying default language", "group", group, "key", key, "language", lang)
			}
			continue
		}
		var sb strings.Builder
		if err := tmpl.Execute(&sb, vars); err != nil {
			return "", fmt.Errorf("render template %s/%s [%s]: %w", group, key, lang, err)
		}
		return sb.String(), nil
	}
	return "", fmt.Errorf("template %s/%s: %w", group, key, port.ErrTemplateNotFound)
}

func (p *Parser) lookup(language, group, key string) *template.Template {
	groups, ok := p.registry[language]
	if !ok {
		return nil
	}
	keys, ok := groups[group]
	if !ok {
		return nil
	}
	return keys[key]
}
