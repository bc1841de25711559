package listener

import (
	"fmt"
	"net/http"
	"strconv"
)

const (
	DefaultPassage = "We believe that we can change the things around us in accordance with our desires, " +
		"we believe it because otherwise we can see no favourable outcome. We do not think of the outcome " +
		"which generally comes to pass and is also favourable: we do not succeed in changing things in " +
		"accordance with our desires, but gradually our desires change. The situation that we hoped to " +
		"change because it was intolerable becomes unimportant to us. We have failed to surmount the " +
		"obstacle, as we were absolutely determined to do, but life has taken us round it, led us beyond " +
		"it, and then if we turn round to gaze into the distance of the past, we can barely see it, so " +
		"imperceptible has it become"
	DefaultPhrase = "phrase"
)

// serveText returns the first length characters of the passage as a JSON
// string. A length past the end returns the whole passage.
func (l *CatalogListener) serveText(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("length")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		writeJSON(r.Context(), w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("length %q must be a non-negative integer", raw),
		})
		return
	}

	text := []rune(l.passage)
	if n > len(text) {
		n = len(text)
	}
	writeJSON(r.Context(), w, http.StatusOK, string(text[:n]))
}

func (l *CatalogListener) servePhrase(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, l.phrase)
}
