package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Translator looks up a message by key and formats it with args.
type Translator interface {
	T(key string, args ...any) string
}

// Func adapts a plain function to Translator.
type Func func(key string, args ...any) string

func (f Func) T(key string, args ...any) string { return f(key, args...) }

type printer struct {
	p *message.Printer
}

func (p printer) T(key string, args ...any) string {
	return p.p.Sprintf(key, args...)
}

// NewTranslator returns a Translator for locale, falling back to the base
// locale when the tag cannot be parsed. Unknown keys render as the key. The
// embedded catalogs are registered on first use.
func NewTranslator(locale string) Translator {
	_, _ = Default()
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(BaseLocale)
	}
	return printer{p: message.NewPrinter(tag)}
}

// MustDefault registers the embedded catalogs and returns a base-locale
// Translator. It panics only if the embedded files are malformed.
func MustDefault() Translator {
	if _, err := Default(); err != nil {
		panic(err)
	}
	return NewTranslator(BaseLocale)
}

// Plural picks the ".one" or ".other" variant of key by n.
func Plural(t Translator, key string, n int, args ...any) string {
	if n == 1 {
		return t.T(key+".one", args...)
	}
	return t.T(key+".other", args...)
}
