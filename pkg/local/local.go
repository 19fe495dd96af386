package local

import (
	"fmt"
	"strings"
)

type Language string

const (
	Eng = Language("en")
	Rus = Language("ru")
)

var Languages = []Language{Eng, Rus}

// ParseLanguage accepts bare codes and locale tags such as "ru-RU" or
// "ru_RU.UTF-8". Anything unsupported falls back to English.
func ParseLanguage(s string) Language {
	code := strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexAny(code, "-_."); i >= 0 {
		code = code[:i]
	}
	for _, language := range Languages {
		if Language(code) == language {
			return language
		}
	}
	return Eng
}

type Translation struct {
	language Language
	text     string
}

func NewTrans(language Language, text string) Translation {
	return Translation{language: language, text: text}
}

// TextSet is one user facing text with its translations. The English text
// doubles as the fallback for missing translations.
type TextSet struct {
	Default      string
	translations map[Language]string
}

func NewSet(defaultText string, translations ...Translation) TextSet {
	set := TextSet{
		Default:      defaultText,
		translations: make(map[Language]string, len(translations)),
	}
	for _, translation := range translations {
		set.translations[translation.language] = translation.text
	}
	return set
}

func (s TextSet) Text(language Language) string {
	if text, ok := s.translations[language]; ok {
		return text
	}
	return s.Default
}

func (s TextSet) Format(language Language, a ...any) string {
	return fmt.Sprintf(s.Text(language), a...)
}
