package models

// MediaFile is one audio file found under a book directory. It is built
// during discovery and never mutated afterwards.
type MediaFile struct {
	Path            string // absolute path on disk
	RelPath         string // slash-separated path relative to the library root
	MIMEType        string // inferred from the extension, "" when unknown
	Title           string // embedded tag title, "" when absent
	DurationSeconds *float64
}

// Episode is the feed-facing view of a MediaFile with its public URL
// resolved. Episode order in ResolvedFeed is the natural order of the
// file paths, not filesystem enumeration order.
type Episode struct {
	Title           string // "" means fall back to the file base name
	Filename        string
	URL             string
	MIMEType        string
	DurationSeconds *float64
}

// ResolvedFeed is the fully merged feed view handed to the assembler.
// Empty optional fields are omitted from the document entirely.
type ResolvedFeed struct {
	Title       string
	Author      string
	Description string
	Image       string
	Language    string
	Link        string
	Episodes    []Episode
}
