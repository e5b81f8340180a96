// Package translate localizes the user facing text of regvm.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"
	"gitlab.com/efronlicht/enve"

	"golang.org/x/text/message"
)

// LANG_ENV overrides the detected system locale.
const LANG_ENV = "REGVM_LANG"

var printer *message.Printer

func asString(s string) (string, error) { return s, nil }

func init() {
	printer = message.NewPrinter(message.MatchLanguage(Locales()...))
}

// Locales returns the preferred locales, most preferred first.
func Locales() (locales []string) {
	lang, err := enve.Lookup(asString, LANG_ENV)
	if err == nil && len(lang) != 0 {
		locales = append(locales, lang)
	}

	system, err := locale.GetLocales()
	if err != nil {
		log.Printf("regvm: locale: %v", err)
	}
	locales = append(locales, system...)

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	return
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
