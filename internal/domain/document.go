package domain

// TextUnit is one extracted chunk of document text: a single page in
// per-page mode, or the whole document in whole-document mode.
type TextUnit struct {
	Content    string
	SourceName string
	// PageLabel is 1-indexed. Zero means the unit spans the whole document.
	PageLabel int
}
