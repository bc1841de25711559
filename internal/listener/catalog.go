package listener

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pixil98/go-roads/internal/logging"
	"github.com/pixil98/go-roads/internal/world"
)

// CatalogListener serves the read-only world catalog over HTTP, along with
// the typing texts clients practice on.
type CatalogListener struct {
	port  uint16
	world *world.Graph

	passage string
	phrase  string
}

func NewCatalogListener(port uint16, g *world.Graph, opts ...CatalogOpt) *CatalogListener {
	l := &CatalogListener{
		port:    port,
		world:   g,
		passage: DefaultPassage,
		phrase:  DefaultPhrase,
	}

	for _, o := range opts {
		o(l)
	}

	return l
}

func (l *CatalogListener) Start(ctx context.Context) error {
	return serveHTTP(ctx, "catalog", l.port, l.Handler())
}

func (l *CatalogListener) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /db", l.serveDB)
	mux.HandleFunc("GET /locations/{id}", l.serveLocation)
	mux.HandleFunc("GET /roads/{id}", l.serveRoad)
	mux.HandleFunc("GET /texts/{length}", l.serveText)
	mux.HandleFunc("GET /phrase", l.servePhrase)
	return mux
}

type summary struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type catalogDB struct {
	Locations map[string]*world.Location `json:"locations"`
	Roads     map[string]*world.Road     `json:"roads"`
}

type locationView struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Locations   []summary `json:"locations"`
	Roads       []summary `json:"roads"`
}

type roadView struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Distance    float64 `json:"distance"`
	From        summary `json:"from"`
	To          summary `json:"to"`
	Backward    string  `json:"backward,omitempty"`
}

func (l *CatalogListener) serveDB(w http.ResponseWriter, r *http.Request) {
	db := catalogDB{
		Locations: map[string]*world.Location{},
		Roads:     map[string]*world.Road{},
	}
	for _, id := range l.world.LocationIds() {
		db.Locations[id], _ = l.world.Location(id)
	}
	for _, id := range l.world.RoadIds() {
		db.Roads[id], _ = l.world.Road(id)
	}

	writeJSON(r.Context(), w, http.StatusOK, db)
}

func (l *CatalogListener) serveLocation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	loc, err := l.world.Location(id)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	view := locationView{
		Name:        loc.Name,
		Description: loc.Description,
		Locations:   []summary{},
		Roads:       []summary{},
	}
	for _, n := range loc.Neighbors {
		s, err := l.locationSummary(n)
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		view.Locations = append(view.Locations, s)
	}
	for _, roadId := range l.world.RoadsFrom(id) {
		road, err := l.world.Road(roadId)
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		view.Roads = append(view.Roads, summary{Id: roadId, Name: road.Name, Description: road.Description})
	}

	writeJSON(r.Context(), w, http.StatusOK, view)
}

func (l *CatalogListener) serveRoad(w http.ResponseWriter, r *http.Request) {
	road, err := l.world.Road(r.PathValue("id"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	from, err := l.locationSummary(road.From)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	to, err := l.locationSummary(road.To)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, roadView{
		Name:        road.Name,
		Description: road.Description,
		Distance:    road.Distance,
		From:        from,
		To:          to,
		Backward:    road.Backward,
	})
}

func (l *CatalogListener) locationSummary(id string) (summary, error) {
	loc, err := l.world.Location(id)
	if err != nil {
		return summary{}, err
	}
	return summary{Id: id, Name: loc.Name, Description: loc.Description}, nil
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(ctx).Debugw("writing catalog response", "error", err)
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, world.ErrNotFound) {
		status = http.StatusNotFound
	}
	writeJSON(ctx, w, status, map[string]string{"error": err.Error()})
}
