// Package translate localizes the diagnostics of the 832 toolchain.
package translate

import (
	"log"
	"os"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LANG_OVERRIDE names the environment variable that forces a message language.
const LANG_OVERRIDE = "A832_LANG"

var (
	printer *message.Printer
	tag     language.Tag
)

func init() {
	var locales []string

	if lang := os.Getenv(LANG_OVERRIDE); len(lang) != 0 {
		locales = []string{lang}
	} else {
		var err error
		locales, err = locale.GetLocales()
		if err != nil {
			log.Printf("a832: locale: %v", err)
		}
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	tag = message.MatchLanguage(locales...)
	printer = message.NewPrinter(tag)
}

// Language returns the language diagnostics are formatted for.
func Language() language.Tag {
	return tag
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
