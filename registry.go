package numcode

import "fmt"

// Registry holds the dictionaries of all loaded languages. It is built once
// at start-up and never changes afterwards; pass it by reference to the
// codec instead of relying on package-level state.
type Registry struct {
	dicts map[LanguageTag]*Dictionary
}

// NewRegistry creates a registry from dictionaries of distinct languages.
func NewRegistry(dicts ...*Dictionary) (*Registry, error) {
	reg := &Registry{dicts: make(map[LanguageTag]*Dictionary, len(dicts))}
	for _, dict := range dicts {
		if dict == nil {
			return nil, fmt.Errorf("registry: nil dictionary")
		}
		if _, dup := reg.dicts[dict.Language()]; dup {
			return nil, fmt.Errorf("registry: duplicate dictionary for %s", dict.Language())
		}
		reg.dicts[dict.Language()] = dict
	}
	return reg, nil
}

// Dictionary returns the dictionary for a language.
func (reg *Registry) Dictionary(lang LanguageTag) (*Dictionary, error) {
	if reg != nil {
		if dict, ok := reg.dicts[lang]; ok {
			return dict, nil
		}
	}
	return nil, fmt.Errorf("%w: %q (no dictionary loaded)", ErrUnsupportedLanguage, lang)
}

// Languages returns the loaded languages in protocol order.
func (reg *Registry) Languages() []LanguageTag {
	var langs []LanguageTag
	for _, lang := range Languages {
		if _, ok := reg.dicts[lang]; ok {
			langs = append(langs, lang)
		}
	}
	return langs
}

// Len returns the number of loaded languages.
func (reg *Registry) Len() int {
	return len(reg.dicts)
}

// Has is a predicate: is a dictionary for lang loaded?
func (reg *Registry) Has(lang LanguageTag) bool {
	_, ok := reg.dicts[lang]
	return ok
}
