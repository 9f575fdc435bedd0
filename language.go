package numcode

import (
	"fmt"
	"slices"
)

// LanguageTag identifies one of the supported dictionary languages.
type LanguageTag string

// The six languages of the protocol. Tags are protocol values, not BCP 47.
const (
	Arabic     LanguageTag = "ar"
	Chinese    LanguageTag = "zh"
	French     LanguageTag = "fr"
	Portuguese LanguageTag = "pt"
	Spanish    LanguageTag = "es"
	English    LanguageTag = "eng"
)

// Languages lists all supported language tags in grid-cell order.
var Languages = []LanguageTag{Arabic, Chinese, French, Portuguese, Spanish, English}

// ParseLanguageTag checks s against the supported tags.
func ParseLanguageTag(s string) (LanguageTag, error) {
	if s == "en" { // common alias
		return English, nil
	}
	tag := LanguageTag(s)
	if !tag.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
	}
	return tag, nil
}

// Valid is a predicate: is tag one of the supported languages?
func (tag LanguageTag) Valid() bool {
	return slices.Contains(Languages, tag)
}

// BCP47 returns the IETF language tag used for casing rules.
func (tag LanguageTag) BCP47() string {
	if tag == English {
		return "en"
	}
	return string(tag)
}

// DataType tags a payload that is not plain text. The zero value means text.
type DataType string

// Payload data types.
const (
	PlainText DataType = ""
	Binary    DataType = "bin"
	Encrypted DataType = "enc"
	Sound     DataType = "so"
	Image     DataType = "im"
)

// DataTypes lists the non-text data types in grid-cell order.
var DataTypes = []DataType{Binary, Encrypted, Sound, Image}

// ParseDataType checks s against the known data types. The empty string
// and "text" denote plain text.
func ParseDataType(s string) (DataType, error) {
	if s == "" || s == "text" {
		return PlainText, nil
	}
	dt := DataType(s)
	if !slices.Contains(DataTypes, dt) {
		return PlainText, fmt.Errorf("unknown data type %q", s)
	}
	return dt, nil
}
