package extractor

// MetaRecord holds the page metadata fields. An empty string means the
// field is absent on the page.
type MetaRecord struct {
	Title         string `json:"title,omitempty"`
	Description   string `json:"description,omitempty"`
	Keywords      string `json:"keywords,omitempty"`
	OGTitle       string `json:"ogTitle,omitempty"`
	OGDescription string `json:"ogDescription,omitempty"`
	Canonical     string `json:"canonical,omitempty"`
}

// PageStructure is the flat record the analysis pipeline reads.
// Headings are h1-h3 texts in document order.
type PageStructure struct {
	Meta     MetaRecord
	Headings []string
	BodyText string
}

// IsEmpty reports whether nothing at all could be extracted.
func (p PageStructure) IsEmpty() bool {
	return p.Meta == (MetaRecord{}) && len(p.Headings) == 0 && p.BodyText == ""
}
