// Package display renders state pushes as text for line based clients.
package display

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pixil98/go-roads/internal/broadcast"
	"github.com/pixil98/go-roads/internal/world"
)

// Names resolves catalog ids to their display data.
type Names interface {
	Location(id string) (*world.Location, error)
	Road(id string) (*world.Road, error)
}

const stateTemplate = `
{{- if .OnRoad -}}
You are on {{ .Place }}, {{ .Percent }}% of the way to {{ .Destination }}.
{{- else -}}
You are in {{ .Place }}.
{{- end }}
{{- with .Description }}
{{ . }}
{{- end }}
{{- if .Exits }}
Exits: {{ .Exits | join ", " }}.
{{- end }}
{{ if .Others -}}
Also here: {{ .Others | join ", " }}.
{{- else -}}
You are alone.
{{- end }}
`

// Renderer turns a broadcast.State into wrapped text.
type Renderer struct {
	names Names
	roads RoadsFrom
	tmpl  *template.Template
	width int
}

// RoadsFrom lists the road ids leaving a location.
type RoadsFrom func(location string) []string

func NewRenderer(names Names, roadsFrom RoadsFrom, width int) (*Renderer, error) {
	tmpl, err := template.New("state").Funcs(sprig.TxtFuncMap()).Parse(stateTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing state template: %w", err)
	}

	return &Renderer{
		names: names,
		roads: roadsFrom,
		tmpl:  tmpl,
		width: width,
	}, nil
}

type stateView struct {
	OnRoad      bool
	Place       string
	Description string
	Destination string
	Percent     int
	Exits       []string
	Others      []string
}

// Render describes s as seen by viewer.
func (r *Renderer) Render(viewer string, s broadcast.State) (string, error) {
	v, err := r.view(viewer, s)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := r.tmpl.Execute(&sb, v); err != nil {
		return "", fmt.Errorf("rendering state: %w", err)
	}

	return Wrap(sb.String(), r.width), nil
}

func (r *Renderer) view(viewer string, s broadcast.State) (stateView, error) {
	var v stateView

	if s.Road != "" {
		road, err := r.names.Road(s.Road)
		if err != nil {
			return v, err
		}
		dest, err := r.names.Location(road.To)
		if err != nil {
			return v, err
		}
		v.OnRoad = true
		v.Place = road.Name
		v.Description = road.Description
		v.Destination = dest.Name
	} else {
		loc, err := r.names.Location(s.Location)
		if err != nil {
			return v, err
		}
		v.Place = loc.Name
		v.Description = loc.Description
		v.Exits = append(v.Exits, loc.Neighbors...)
		if r.roads != nil {
			v.Exits = append(v.Exits, r.roads(s.Location)...)
		}
	}

	for _, p := range s.PlayersHere {
		if p.Identifier == viewer {
			if p.ProgressPercent != nil {
				v.Percent = *p.ProgressPercent
			}
			continue
		}
		if p.ProgressPercent != nil {
			v.Others = append(v.Others, fmt.Sprintf("%s (%d%%)", p.Identifier, *p.ProgressPercent))
		} else {
			v.Others = append(v.Others, p.Identifier)
		}
	}

	return v, nil
}
