// Package dateformat renders publication dates for display in a fixed locale.
package dateformat

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// DefaultLocale is used when no locale is configured or the configured one is unsupported.
const DefaultLocale = "pt-BR"

type longFormat struct {
	months [12]string
	render func(day int, month string, year int) string
}

var supported = []language.Tag{
	language.BrazilianPortuguese,
	language.AmericanEnglish,
}

var formats = []longFormat{
	{
		months: [12]string{
			"janeiro", "fevereiro", "março", "abril", "maio", "junho",
			"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
		},
		render: func(day int, month string, year int) string {
			return fmt.Sprintf("%02d de %s de %d", day, month, year)
		},
	},
	{
		months: [12]string{
			"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December",
		},
		render: func(day int, month string, year int) string {
			return fmt.Sprintf("%s %02d, %d", month, day, year)
		},
	},
}

var matcher = language.NewMatcher(supported)

// Formatter formats timestamps as day, full month name and year.
type Formatter struct {
	tag    language.Tag
	format longFormat
	loc    *time.Location
}

// New builds a Formatter for a BCP 47 locale tag. Tags that do not match a supported
// locale fall back to DefaultLocale; a malformed tag is an error. A nil location means UTC.
func New(locale string, loc *time.Location) (*Formatter, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	if loc == nil {
		loc = time.UTC
	}

	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		idx = 0
	}

	return &Formatter{tag: supported[idx], format: formats[idx], loc: loc}, nil
}

// Locale reports the locale actually used for formatting.
func (f *Formatter) Locale() string {
	return f.tag.String()
}

// Long renders t as e.g. "05 de março de 2023".
func (f *Formatter) Long(t time.Time) string {
	t = t.In(f.loc)
	return f.format.render(t.Day(), f.format.months[t.Month()-1], t.Year())
}
