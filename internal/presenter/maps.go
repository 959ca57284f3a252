// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import "github.com/vorlif/spreak/localize"

// MoonPhaseIcon is a map where moon phase names are keys and their corresponding emoji representations are values.
var MoonPhaseIcon = map[string]string{
	"New Moon":        "🌑",
	"Waxing Crescent": "🌒",
	"First Quarter":   "🌓",
	"Waxing Gibbous":  "🌔",
	"Full Moon":       "🌕",
	"Waning Gibbous":  "🌖",
	"Third Quarter":   "🌗",
	"Waning Crescent": "🌘",
}

// StateIcons maps weather state abbreviations to emoji icons
var StateIcons = map[string]string{
	"sn": "❄️",
	"sl": "🌨️",
	"h":  "🧊",
	"t":  "⛈️",
	"hr": "🌧️",
	"lr": "🌦️",
	"s":  "🌦️",
	"hc": "☁️",
	"lc": "⛅",
	"c":  "☀️",
}

var i18nVars = map[string]localize.MsgID{
	"searching":       "Searching",
	"search":          "Search",
	"location":        "Location",
	"sunrise":         "Sunrise",
	"sunset":          "Sunset",
	"moonphase":       "Moon phase",
	"new moon":        "New Moon",
	"waxing crescent": "Waxing Crescent",
	"first quarter":   "First Quarter",
	"waxing gibbous":  "Waxing Gibbous",
	"full moon":       "Full Moon",
	"waning gibbous":  "Waning Gibbous",
	"third quarter":   "Third Quarter",
	"waning crescent": "Waning Crescent",
}
