package extractor

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/rohmanhakim/geo-analyzer/internal/metadata"
	"golang.org/x/net/html/charset"
)

/*
Responsibilities
- Decode the fetched bytes to UTF-8
- Parse HTML into a DOM tree
- Flatten the tree into a PageStructure

Extraction Rules
- Title is <title>, falling back to og:title
- Description, keywords and og:* come from <meta>; canonical from <link rel="canonical">
- Headings are h1, h2 and h3 in document order
- Body text is the whitespace-collapsed text of p and li elements
- script, style and noscript never contribute text

Extraction is total: input that cannot be parsed yields an empty
PageStructure and a recorded degradation, never an error.
*/

type Extractor interface {
	Extract(sourceUrl url.URL, htmlByte []byte, contentType string) PageStructure
}

type PageExtractor struct {
	metadataSink metadata.MetadataSink
}

func NewPageExtractor(
	metadataSink metadata.MetadataSink,
) PageExtractor {
	return PageExtractor{
		metadataSink: metadataSink,
	}
}

func (p *PageExtractor) Extract(
	sourceUrl url.URL,
	htmlByte []byte,
	contentType string,
) PageStructure {
	page, err := extract(htmlByte, contentType)
	if err != nil {
		p.metadataSink.RecordError(
			time.Now(),
			"extractor",
			"PageExtractor.Extract",
			mapExtractionErrorToMetadataCause(err),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, sourceUrl.String()),
			},
		)
		return PageStructure{}
	}
	return page
}

func extract(htmlByte []byte, contentType string) (PageStructure, *ExtractionError) {
	utf8data, err := decode(htmlByte, contentType)
	if err != nil {
		return PageStructure{}, err
	}

	doc, parseErr := goquery.NewDocumentFromReader(bytes.NewReader(utf8data))
	if parseErr != nil {
		return PageStructure{}, &ExtractionError{
			Message: parseErr.Error(),
			Cause:   ErrCauseParseFailure,
		}
	}

	doc.Find("script,noscript,style").Remove()

	page := PageStructure{
		Meta:     extractMeta(doc),
		Headings: collectTexts(doc.Find("h1,h2,h3")),
		BodyText: strings.Join(collectTexts(doc.Find("p,li")), " "),
	}
	if page.IsEmpty() {
		return PageStructure{}, &ExtractionError{
			Message: fmt.Sprintf("%d bytes without title, headings or body text", len(htmlByte)),
			Cause:   ErrCauseNoContent,
		}
	}
	return page, nil
}

func decode(data []byte, contentType string) ([]byte, *ExtractionError) {
	enc, _, _ := charset.DetermineEncoding(data, contentType)
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		// already utf-8 is fine as is
		if !utf8.Valid(data) {
			return nil, &ExtractionError{
				Message: err.Error(),
				Cause:   ErrCauseDecodeFailure,
			}
		}
		utf8data = data
	}
	return utf8data, nil
}

func extractMeta(doc *goquery.Document) MetaRecord {
	meta := MetaRecord{
		Title:         collapse(doc.Find("title").First().Text()),
		Description:   attr(doc, `meta[name="description"]`, "content"),
		Keywords:      attr(doc, `meta[name="keywords"]`, "content"),
		OGTitle:       attr(doc, `meta[property="og:title"]`, "content"),
		OGDescription: attr(doc, `meta[property="og:description"]`, "content"),
		Canonical:     attr(doc, `link[rel="canonical"]`, "href"),
	}
	if meta.Title == "" {
		meta.Title = meta.OGTitle
	}
	return meta
}

func attr(doc *goquery.Document, selector string, name string) string {
	return collapse(doc.Find(selector).First().AttrOr(name, ""))
}

func collectTexts(sel *goquery.Selection) []string {
	var texts []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if t := collapse(s.Text()); t != "" {
			texts = append(texts, t)
		}
	})
	return texts
}

// collapse trims s and folds every whitespace run into one space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
