// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package server

const pageTemplate = `<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>weather-search</title>
</head>
<body>
{{- if .View.Loading}}
<div class="loading">{{loc "searching"}}...</div>
{{- end}}
{{- if .View.InputVisible}}
<form class="search" action="/search" method="get">
<input type="text" name="query" value="{{.Query}}" placeholder="{{loc "location"}}">
<button type="submit">{{loc "search"}}</button>
</form>
{{- end}}
{{- if .View.HasError}}
<div class="error">{{.View.Error}}</div>
{{- end}}
{{- if .View.ForecastVisible}}
<section class="forecast">
<h1>{{.View.Today.LocationName}}</h1>
<p class="date">{{.View.Today.Weekday}}, {{.View.Today.FullDate}}</p>
<p class="today">
<span class="icon icon-{{.View.Today.IconCode}}">{{icon .View.Today.IconCode}}</span>
<span class="temperature">{{.View.Today.Temperature}}°C</span>
<span class="state">{{.View.Today.WeatherState}}</span>
</p>
<ul class="details">
{{- range .View.Details}}
<li><span class="name">{{.Name}}</span> <span class="value">{{.Value}} {{.Unit}}</span></li>
{{- end}}
</ul>
{{- if .View.Today.Sunrise.IsSet}}
<p class="sun">{{loc "sunrise"}}: {{clock .View.Today.Sunrise.Value}}, {{loc "sunset"}}: {{clock .View.Today.Sunset.Value}}</p>
{{- end}}
<p class="moon">{{moonIcon .View.Today.MoonPhase}} {{loc .View.Today.MoonPhase}}</p>
<ul class="upcoming">
{{- range .View.Upcoming}}
<li><span class="weekday">{{.Weekday}}</span> <span class="icon icon-{{.IconCode}}">{{icon .IconCode}}</span> <span class="max">{{.MaxTemperature}}°C</span></li>
{{- end}}
</ul>
<p><a href="/chart?query={{.Query}}">chart</a> | <a href="/">{{loc "search"}}</a></p>
</section>
{{- end}}
</body>
</html>
`
