// Package translate localizes the diagnostic messages of the assembler and
// simulator.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("rv32i: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}

// Lines translates each format in turn, one string per format.
func Lines(keys ...message.Reference) (lines []string) {
	for _, key := range keys {
		lines = append(lines, printer.Sprintf(key))
	}
	return
}
