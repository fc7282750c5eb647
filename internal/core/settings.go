package core

// DefaultSentinel is the text the header/footer fixer writes wherever content was masked.
const DefaultSentinel = "(This info has been redacted)"

// Settings holds the tunables shared by the parsing and clustering stages.
// Every cutoff is on the 0..100 similarity scale and must be exceeded.
type Settings struct {
	Sentinel          string
	HeaderMatchCutoff int
	MergeCutoff       int
	RedactionCutoff   int
	MaxContactLength  int
	UseThreads        bool
}

// DefaultSettings returns the settings used when nothing is configured
func DefaultSettings() Settings {
	return Settings{
		Sentinel:          DefaultSentinel,
		HeaderMatchCutoff: 50,
		MergeCutoff:       90,
		RedactionCutoff:   90,
		MaxContactLength:  60,
		UseThreads:        true,
	}
}
