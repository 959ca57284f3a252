// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"strings"
	"text/template"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/vorlif/humanize"
	"github.com/vorlif/humanize/locale/de"
	"github.com/vorlif/humanize/locale/es"
	"github.com/vorlif/humanize/locale/fr"
	"github.com/vorlif/humanize/locale/it"
	"github.com/vorlif/spreak"
)

// Funcs holds the helpers that templates of every presentation surface share.
type Funcs struct {
	localizer *spreak.Localizer
	humanizer *humanize.Humanizer
}

// NewFuncs returns template helpers bound to the given localizer.
func NewFuncs(localizer *spreak.Localizer) *Funcs {
	collection := humanize.MustNew(humanize.WithLocale(de.New(), es.New(), fr.New(), it.New()))
	return &Funcs{
		localizer: localizer,
		humanizer: collection.CreateHumanizer(localizer.Language()),
	}
}

// Map returns the helpers as a template.FuncMap. The result is usable with text/template
// and html/template alike.
func (f *Funcs) Map() template.FuncMap {
	return template.FuncMap{
		"timeFormat": f.timeFormat,
		"clock":      f.clock,
		"natural":    f.natural,
		"loc":        f.loc,
		"icon":       icon,
		"moonIcon":   moonIcon,
		"pad":        pad,
		"lc":         strings.ToLower,
		"uc":         strings.ToUpper,
	}
}

// Loc translates a known template term into the localizer's language.
func (f *Funcs) Loc(val string) string {
	return f.loc(val)
}

func (f *Funcs) loc(val string) string {
	key := strings.ToLower(val)
	if raw, ok := i18nVars[key]; ok {
		return f.localizer.Get(raw)
	}
	return val
}

func (f *Funcs) clock(val time.Time) string {
	return f.humanizer.FormatTime(val, humanize.TimeFormat)
}

func (f *Funcs) natural(val time.Time) string {
	return f.humanizer.NaturalTime(val)
}

func (f *Funcs) timeFormat(val time.Time, fmt string) string {
	return val.Format(fmt)
}

func icon(code string) string {
	if val, ok := StateIcons[code]; ok {
		return val
	}
	return code
}

func moonIcon(phase string) string {
	return MoonPhaseIcon[phase]
}

// pad right-fills val with spaces up to the given terminal cell width.
func pad(val string, width int) string {
	return runewidth.FillRight(val, width)
}
