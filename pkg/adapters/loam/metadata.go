package loam

// SlideMetadata represents the frontmatter of a slide document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type SlideMetadata struct {
	ID    string `json:"id" mapstructure:"id"`
	Title string `json:"title" mapstructure:"title"`

	// Fragments lists the incrementally revealed elements, in reveal order.
	// Each entry is either a plain string or a LoaderFragment map.
	Fragments []any `json:"fragments" mapstructure:"fragments"`

	// Hidden excludes the document from the deck without deleting it.
	Hidden bool `json:"hidden" mapstructure:"hidden"`

	// General Metadata
	Metadata map[string]any `json:"metadata" mapstructure:"metadata"`
}

// LoaderFragment is the long form of a fragment entry.
type LoaderFragment struct {
	ID   string `json:"id" mapstructure:"id"`
	Text string `json:"text" mapstructure:"text"`
}
