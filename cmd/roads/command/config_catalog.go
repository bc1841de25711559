package command

import (
	"github.com/pixil98/go-roads/internal/listener"
	"github.com/pixil98/go-roads/internal/world"
)

// CatalogConfig enables the HTTP catalog when Port is set. Passage and
// Phrase override the default typing texts.
type CatalogConfig struct {
	Port    uint16 `json:"port,omitempty"`
	Passage string `json:"passage,omitempty"`
	Phrase  string `json:"phrase,omitempty"`
}

func (c *CatalogConfig) validate() error {
	return nil
}

func (c *CatalogConfig) buildCatalog(g *world.Graph) *listener.CatalogListener {
	if c.Port == 0 {
		return nil
	}

	var opts []listener.CatalogOpt
	if c.Passage != "" {
		opts = append(opts, listener.WithPassage(c.Passage))
	}
	if c.Phrase != "" {
		opts = append(opts, listener.WithPhrase(c.Phrase))
	}
	return listener.NewCatalogListener(c.Port, g, opts...)
}
