package listener

type CatalogOpt func(*CatalogListener)

// WithPassage replaces the text served by /texts/{length}.
func WithPassage(text string) CatalogOpt {
	return func(l *CatalogListener) {
		l.passage = text
	}
}

func WithPhrase(phrase string) CatalogOpt {
	return func(l *CatalogListener) {
		l.phrase = phrase
	}
}
