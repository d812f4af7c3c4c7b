// Package util provides JSON documents built from parsed PO catalogs.
package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// Layout selects the shape of the JSON document written for a catalog.
type Layout string

const (
	// LayoutPolib is a top-level array of polib-style entry objects.
	LayoutPolib Layout = "polib"
	// LayoutCatalog wraps polib-style entries with header and metadata.
	LayoutCatalog Layout = "catalog"
	// LayoutGettext is the msg-select --json format of git-po-helper.
	LayoutGettext Layout = "gettext"
)

// DefaultIndent is the number of spaces used to indent JSON output.
const DefaultIndent = 4

// Layouts lists the supported layouts, default first.
var Layouts = []Layout{LayoutPolib, LayoutCatalog, LayoutGettext}

// ParseLayout validates a layout name.
func ParseLayout(s string) (Layout, error) {
	if s == "" {
		return LayoutPolib, nil
	}
	for _, l := range Layouts {
		if string(l) == strings.ToLower(s) {
			return l, nil
		}
	}
	names := make([]string, 0, len(Layouts))
	for _, l := range Layouts {
		names = append(names, string(l))
	}
	return "", fmt.Errorf("unknown layout %q (want one of: %s)", s, strings.Join(names, ", "))
}

// PolibEntry is one entry object, with fields in polib attribute order.
type PolibEntry struct {
	MsgID           string       `json:"msgid"`
	MsgStr          string       `json:"msgstr"`
	MsgIDPlural     string       `json:"msgid_plural"`
	MsgStrPlural    PluralForms  `json:"msgstr_plural"`
	MsgCtxt         *string      `json:"msgctxt"`
	Obsolete        int          `json:"obsolete"`
	Encoding        string       `json:"encoding"`
	Comment         string       `json:"comment"`
	TComment        string       `json:"tcomment"`
	Occurrences     []Occurrence `json:"occurrences"`
	Flags           []string     `json:"flags"`
	PrevMsgCtxt     *string      `json:"previous_msgctxt"`
	PrevMsgID       *string      `json:"previous_msgid"`
	PrevMsgIDPlural *string      `json:"previous_msgid_plural"`
	LineNum         int          `json:"linenum"`
}

// Occurrence is a [file, line] pair from a "#:" reference; line may be "".
type Occurrence [2]string

// PluralForms marshals msgstr[N] as an object keyed by plural index.
type PluralForms []string

// MarshalJSON keeps numeric key order, which a Go map would not.
func (p PluralForms) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, strconv.Itoa(i)); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, s); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON writes metadata as an object in header order.
func (m Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, f.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, f.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeJSONString encodes s without HTML escaping.
func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode always appends a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// CatalogJSON is the document written for LayoutCatalog.
type CatalogJSON struct {
	Header          string       `json:"header"`
	Metadata        Metadata     `json:"metadata"`
	MetadataIsFuzzy bool         `json:"metadata_is_fuzzy"`
	Encoding        string       `json:"encoding"`
	Language        string       `json:"language"`
	Entries         []PolibEntry `json:"entries"`
}

// GettextJSON is the top-level structure for LayoutGettext.
type GettextJSON struct {
	HeaderComment string         `json:"header_comment"`
	HeaderMeta    string         `json:"header_meta"`
	Entries       []GettextEntry `json:"entries"`
}

// GettextEntry represents one PO entry in the gettext JSON format.
type GettextEntry struct {
	MsgCtxt      *string  `json:"msgctxt,omitempty"`
	MsgID        string   `json:"msgid"`
	MsgStr       string   `json:"msgstr"`
	MsgIDPlural  string   `json:"msgid_plural,omitempty"`
	MsgStrPlural []string `json:"msgstr_plural,omitempty"`
	Comments     []string `json:"comments,omitempty"`
	Fuzzy        bool     `json:"fuzzy"`
	Obsolete     bool     `json:"obsolete,omitempty"`
}

// splitOccurrence splits "file:line" at the last colon when line is numeric.
func splitOccurrence(ref string) Occurrence {
	if idx := strings.LastIndex(ref, ":"); idx >= 0 {
		if _, err := strconv.Atoi(ref[idx+1:]); err == nil {
			return Occurrence{ref[:idx], ref[idx+1:]}
		}
	}
	return Occurrence{ref, ""}
}

// NewPolibEntry converts a parsed entry into its JSON object.
func NewPolibEntry(e *PoEntry, encoding string) PolibEntry {
	ent := PolibEntry{
		MsgID:           e.MsgID,
		MsgStr:          e.MsgStr,
		MsgIDPlural:     e.MsgIDPlural,
		MsgStrPlural:    PluralForms(e.MsgStrPlural),
		MsgCtxt:         e.MsgCtxt,
		Encoding:        encoding,
		Comment:         strings.Join(e.ExtractedComments, "\n"),
		TComment:        strings.Join(e.TranslatorComments, "\n"),
		Occurrences:     make([]Occurrence, 0, len(e.References)),
		Flags:           e.Flags,
		PrevMsgCtxt:     e.PrevMsgCtxt,
		PrevMsgID:       e.PrevMsgID,
		PrevMsgIDPlural: e.PrevMsgIDPlural,
		LineNum:         e.LineNum,
	}
	if e.IsObsolete {
		ent.Obsolete = 1
	}
	for _, ref := range e.References {
		ent.Occurrences = append(ent.Occurrences, splitOccurrence(ref))
	}
	if ent.Flags == nil {
		ent.Flags = []string{}
	}
	return ent
}

// BuildPolibEntries converts entries for LayoutPolib.
func BuildPolibEntries(c *Catalog, entries []*PoEntry) []PolibEntry {
	out := make([]PolibEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, NewPolibEntry(e, c.Encoding))
	}
	return out
}

// CanonicalLanguage returns the BCP 47 form of the Language header, or ""
// when the header is missing or not a valid tag.
func CanonicalLanguage(c *Catalog) string {
	lang := c.Metadata.Get("Language")
	if lang == "" {
		return ""
	}
	// Strip a "@modifier" suffix, as in "sr@latin".
	if idx := strings.Index(lang, "@"); idx >= 0 {
		lang = lang[:idx]
	}
	tag, err := language.Parse(strings.Replace(lang, "_", "-", -1))
	if err != nil {
		return ""
	}
	return tag.String()
}

// BuildCatalogJSON converts entries for LayoutCatalog.
func BuildCatalogJSON(c *Catalog, entries []*PoEntry) *CatalogJSON {
	meta := c.Metadata
	if meta == nil {
		meta = Metadata{}
	}
	return &CatalogJSON{
		Header:          c.HeaderComment(),
		Metadata:        meta,
		MetadataIsFuzzy: c.MetadataIsFuzzy,
		Encoding:        c.Encoding,
		Language:        CanonicalLanguage(c),
		Entries:         BuildPolibEntries(c, entries),
	}
}

// BuildGettextJSON converts entries for LayoutGettext. The header comment
// keeps the raw comment lines; the header meta is the decoded msgstr.
func BuildGettextJSON(c *Catalog, entries []*PoEntry) *GettextJSON {
	out := GettextJSON{
		Entries: make([]GettextEntry, 0, len(entries)),
	}
	if c.Header != nil {
		if len(c.Header.Comments) > 0 {
			out.HeaderComment = strings.Join(c.Header.Comments, "\n") + "\n"
		}
		out.HeaderMeta = c.Header.MsgStr
	}
	for _, e := range entries {
		ent := GettextEntry{
			MsgCtxt:      e.MsgCtxt,
			MsgID:        e.MsgID,
			MsgStr:       e.MsgStr,
			MsgIDPlural:  e.MsgIDPlural,
			MsgStrPlural: e.MsgStrPlural,
			Comments:     e.Comments,
			Fuzzy:        e.IsFuzzy,
			Obsolete:     e.IsObsolete,
		}
		if ent.Comments == nil {
			ent.Comments = []string{}
		}
		out.Entries = append(out.Entries, ent)
	}
	return &out
}

// BuildDocument builds the JSON document of the given layout.
func BuildDocument(c *Catalog, entries []*PoEntry, layout Layout) (interface{}, error) {
	switch layout {
	case LayoutPolib, "":
		return BuildPolibEntries(c, entries), nil
	case LayoutCatalog:
		return BuildCatalogJSON(c, entries), nil
	case LayoutGettext:
		return BuildGettextJSON(c, entries), nil
	}
	return nil, fmt.Errorf("unknown layout %q", layout)
}

// WriteDocument encodes doc to w with the given indent width, leaving
// non-ASCII and HTML characters unescaped. Indent 0 writes compact JSON.
func WriteDocument(w io.Writer, doc interface{}, indent int) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
