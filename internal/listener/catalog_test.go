package listener

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pixil98/go-roads/internal/world/worldtest"
	"github.com/pixil98/go-testutil"
)

func getJSON(t *testing.T, h http.Handler, path string, v any) int {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	if v != nil && rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
			t.Fatalf("decoding %s: %v", path, err)
		}
	}
	return rec.Code
}

func TestCatalog_DB(t *testing.T) {
	h := NewCatalogListener(0, worldtest.Graph(t)).Handler()

	var db catalogDB
	code := getJSON(t, h, "/db", &db)

	testutil.AssertEqual(t, "status", code, http.StatusOK)
	testutil.AssertEqual(t, "locations", len(db.Locations), 5)
	testutil.AssertEqual(t, "roads", len(db.Roads), 8)
	testutil.AssertEqual(t, "village name", db.Locations[worldtest.Village].Name, "Village")
	testutil.AssertEqual(t, "road distance", db.Roads[worldtest.VillageToForest].Distance, 100.0)
}

func TestCatalog_Location(t *testing.T) {
	h := NewCatalogListener(0, worldtest.Graph(t)).Handler()

	var v locationView
	code := getJSON(t, h, "/locations/village", &v)

	testutil.AssertEqual(t, "status", code, http.StatusOK)
	testutil.AssertEqual(t, "name", v.Name, "Village")
	testutil.AssertEqual(t, "neighbors", len(v.Locations), 1)
	testutil.AssertEqual(t, "neighbor", v.Locations[0].Id, worldtest.House)
	testutil.AssertEqual(t, "roads", len(v.Roads), 2)
	testutil.AssertEqual(t, "first road", v.Roads[0].Id, worldtest.VillageToForest)

	var forest locationView
	getJSON(t, h, "/locations/forest", &forest)
	testutil.AssertEqual(t, "no neighbors", len(forest.Locations), 0)
}

func TestCatalog_Road(t *testing.T) {
	h := NewCatalogListener(0, worldtest.Graph(t)).Handler()

	var v roadView
	code := getJSON(t, h, "/roads/"+worldtest.SecretPathway, &v)

	testutil.AssertEqual(t, "status", code, http.StatusOK)
	testutil.AssertEqual(t, "name", v.Name, "Secret pathway")
	testutil.AssertEqual(t, "from", v.From.Name, "House")
	testutil.AssertEqual(t, "to", v.To.Name, "Secret place")
	testutil.AssertEqual(t, "one way", v.Backward, "")
}

func TestCatalog_NotFound(t *testing.T) {
	h := NewCatalogListener(0, worldtest.Graph(t)).Handler()

	tests := map[string]struct {
		path string
	}{
		"unknown location": {path: "/locations/nowhere"},
		"unknown road":     {path: "/roads/nowhere"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "status", getJSON(t, h, tt.path, nil), http.StatusNotFound)
		})
	}
}

func TestCatalog_Texts(t *testing.T) {
	h := NewCatalogListener(0, worldtest.Graph(t), WithPassage("héllo world")).Handler()

	tests := map[string]struct {
		path    string
		expCode int
		exp     string
	}{
		"prefix": {
			path:    "/texts/5",
			expCode: http.StatusOK,
			exp:     "héllo",
		},
		"zero length": {
			path:    "/texts/0",
			expCode: http.StatusOK,
			exp:     "",
		},
		"longer than the passage": {
			path:    "/texts/500",
			expCode: http.StatusOK,
			exp:     "héllo world",
		},
		"not a number": {
			path:    "/texts/many",
			expCode: http.StatusBadRequest,
		},
		"negative": {
			path:    "/texts/-3",
			expCode: http.StatusBadRequest,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var got string
			code := getJSON(t, h, tt.path, &got)

			testutil.AssertEqual(t, "status", code, tt.expCode)
			testutil.AssertEqual(t, "text", got, tt.exp)
		})
	}
}

func TestCatalog_DefaultTexts(t *testing.T) {
	h := NewCatalogListener(0, worldtest.Graph(t)).Handler()

	var text string
	getJSON(t, h, "/texts/10", &text)
	testutil.AssertEqual(t, "passage prefix", text, "We believe")

	var phrase string
	code := getJSON(t, h, "/phrase", &phrase)
	testutil.AssertEqual(t, "status", code, http.StatusOK)
	testutil.AssertEqual(t, "phrase", phrase, DefaultPhrase)
}
