// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openmeteo

// wmoState maps WMO weather codes to a weather state name and the icon code used by the
// presentation layer.
var wmoState = map[int]struct {
	Name string
	Icon string
}{
	0:  {"Clear sky", "c"},
	1:  {"Mainly clear", "lc"},
	2:  {"Partly cloudy", "lc"},
	3:  {"Overcast", "hc"},
	45: {"Fog", "hc"},
	48: {"Depositing rime fog", "hc"},
	51: {"Light drizzle", "lr"},
	53: {"Moderate drizzle", "lr"},
	55: {"Dense drizzle", "lr"},
	56: {"Light freezing drizzle", "sl"},
	57: {"Dense freezing drizzle", "sl"},
	61: {"Slight rain", "lr"},
	63: {"Moderate rain", "hr"},
	65: {"Heavy rain", "hr"},
	66: {"Light freezing rain", "sl"},
	67: {"Heavy freezing rain", "sl"},
	71: {"Slight snow fall", "sn"},
	73: {"Moderate snow fall", "sn"},
	75: {"Heavy snow fall", "sn"},
	77: {"Snow grains", "sn"},
	80: {"Slight rain showers", "s"},
	81: {"Moderate rain showers", "s"},
	82: {"Violent rain showers", "hr"},
	85: {"Slight snow showers", "sn"},
	86: {"Heavy snow showers", "sn"},
	95: {"Thunderstorm", "t"},
	96: {"Thunderstorm with slight hail", "h"},
	99: {"Thunderstorm with heavy hail", "h"},
}

func stateForCode(code int) (string, string) {
	state, ok := wmoState[code]
	if !ok {
		return "Unknown", "c"
	}
	return state.Name, state.Icon
}
