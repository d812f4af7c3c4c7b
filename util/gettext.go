// Package util provides PO file parsing utilities.
package util

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// PoEntry represents a single PO file entry.
type PoEntry struct {
	Comments           []string // Raw comment lines, in file order
	TranslatorComments []string // "# " lines
	ExtractedComments  []string // "#." lines
	References         []string // "#:" tokens, such as "src/main.c:12"
	Flags              []string // "#," flags, such as "fuzzy" or "c-format"
	PrevMsgCtxt        *string  // "#| msgctxt"
	PrevMsgID          *string  // "#| msgid"
	PrevMsgIDPlural    *string  // "#| msgid_plural"
	MsgCtxt            *string
	MsgID              string
	MsgStr             string
	MsgIDPlural        string
	MsgStrPlural       []string
	IsFuzzy            bool
	IsObsolete         bool
	LineNum            int      // 1-based line where the entry starts
	RawLines           []string // Original lines for the entry
}

// HasFlag returns true if the entry carries the given "#," flag.
func (e *PoEntry) HasFlag(flag string) bool {
	for _, f := range e.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// MetaField is one "Key: Value" line of the header entry.
type MetaField struct {
	Key   string
	Value string
}

// Metadata holds header fields in the order they appear in the PO file.
type Metadata []MetaField

// Get returns the value of key, or "" if the key is missing.
func (m Metadata) Get(key string) string {
	for _, f := range m {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

func (m *Metadata) set(key, value string) {
	for i := range *m {
		if (*m)[i].Key == key {
			(*m)[i].Value = value
			return
		}
	}
	*m = append(*m, MetaField{Key: key, Value: value})
}

// Catalog is a parsed PO file: the header entry plus the message entries.
type Catalog struct {
	// Header is the entry with empty msgid at the top of the file, or nil.
	Header          *PoEntry
	Metadata        Metadata
	MetadataIsFuzzy bool
	// Encoding is the charset declared in Content-Type, or DefaultEncoding.
	Encoding string
	Entries  []*PoEntry
}

// HeaderComment returns the translator comments of the header entry.
func (c *Catalog) HeaderComment() string {
	if c.Header == nil {
		return ""
	}
	return strings.Join(c.Header.TranslatorComments, "\n")
}

// PoSyntaxError reports malformed PO content.
type PoSyntaxError struct {
	Line int
	Msg  string
}

func (e *PoSyntaxError) Error() string {
	return fmt.Sprintf("syntax error in po file (line %d): %s", e.Line, e.Msg)
}

type poField int

const (
	fieldNone poField = iota
	fieldMsgCtxt
	fieldMsgID
	fieldMsgIDPlural
	fieldMsgStr
	fieldMsgStrPlural
	fieldPrevMsgCtxt
	fieldPrevMsgID
	fieldPrevMsgIDPlural
)

type poParser struct {
	catalog *Catalog
	entry   *PoEntry
	lineno  int

	field       poField
	pluralIndex int
	hasMsgID    bool
	hasMsgStr   bool

	msgctxt      strings.Builder
	msgid        strings.Builder
	msgidPlural  strings.Builder
	msgstr       strings.Builder
	msgstrPlural []strings.Builder
	prevCtxt     strings.Builder
	prevID       strings.Builder
	prevIDPlural strings.Builder
}

// ParseCatalog parses PO file content, which must already be UTF-8;
// invalid UTF-8 is reported as a syntax error on the offending line.
// The first entry with empty msgid and no msgctxt becomes the catalog header
// and is not included in Entries.
func ParseCatalog(data []byte) (*Catalog, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	p := poParser{catalog: &Catalog{}}
	for _, line := range strings.Split(string(data), "\n") {
		p.lineno++
		if !utf8.ValidString(line) {
			return nil, p.errorf("invalid UTF-8 sequence, wrong or missing charset in Content-Type")
		}
		if err := p.parseLine(strings.TrimRight(line, "\r")); err != nil {
			return nil, err
		}
	}
	if err := p.flush(); err != nil {
		return nil, err
	}

	c := p.catalog
	if c.Header != nil {
		c.Metadata = parseMetadata(c.Header.MsgStr)
		c.MetadataIsFuzzy = c.Header.IsFuzzy
	}
	c.Encoding = charsetFromContentType(c.Metadata.Get("Content-Type"))
	for _, e := range c.Entries {
		if len(e.MsgStrPlural) > 0 && e.MsgIDPlural == "" {
			return nil, &PoSyntaxError{Line: e.LineNum, Msg: "msgstr[] without msgid_plural"}
		}
	}
	return c, nil
}

func (p *poParser) errorf(format string, a ...interface{}) error {
	return &PoSyntaxError{Line: p.lineno, Msg: fmt.Sprintf(format, a...)}
}

func (p *poParser) parseLine(line string) error {
	trimmed := strings.TrimSpace(line)

	if trimmed == "" {
		if p.entry != nil && p.hasMsgID && !p.hasMsgStr {
			return p.errorf("missing msgstr")
		}
		if p.hasMsgStr {
			if err := p.flush(); err != nil {
				return err
			}
		}
		p.field = fieldNone
		return nil
	}

	obsolete := false
	if strings.HasPrefix(trimmed, "#~") {
		obsolete = true
		trimmed = strings.TrimSpace(trimmed[2:])
		if trimmed == "" {
			return nil
		}
		if strings.HasPrefix(trimmed, "|") {
			if err := p.beginComment(line); err != nil {
				return err
			}
			p.entry.IsObsolete = true
			return p.parsePrevious(strings.TrimSpace(trimmed[1:]))
		}
	} else if strings.HasPrefix(trimmed, "#") {
		return p.parseComment(line, trimmed)
	}

	if err := p.parseKeyword(trimmed); err != nil {
		return err
	}
	if obsolete {
		p.entry.IsObsolete = true
	}
	p.entry.RawLines = append(p.entry.RawLines, line)
	return nil
}

// beginComment makes sure a comment line attaches to a fresh entry when the
// previous entry is already complete.
func (p *poParser) beginComment(line string) error {
	if p.hasMsgStr {
		if err := p.flush(); err != nil {
			return err
		}
	} else if p.hasMsgID {
		return p.errorf("comment inside entry, missing msgstr")
	}
	p.startEntry()
	p.entry.Comments = append(p.entry.Comments, line)
	p.entry.RawLines = append(p.entry.RawLines, line)
	return nil
}

func (p *poParser) startEntry() {
	if p.entry == nil {
		p.entry = &PoEntry{LineNum: p.lineno}
	}
}

func (p *poParser) parseComment(line, trimmed string) error {
	if err := p.beginComment(line); err != nil {
		return err
	}
	e := p.entry

	switch {
	case strings.HasPrefix(trimmed, "#,"):
		p.field = fieldNone
		for _, flag := range strings.Split(trimmed[2:], ",") {
			flag = strings.TrimSpace(flag)
			if flag == "" {
				continue
			}
			e.Flags = append(e.Flags, flag)
		}
		e.IsFuzzy = e.HasFlag("fuzzy")
	case strings.HasPrefix(trimmed, "#:"):
		p.field = fieldNone
		e.References = append(e.References, strings.Fields(trimmed[2:])...)
	case strings.HasPrefix(trimmed, "#."):
		p.field = fieldNone
		e.ExtractedComments = append(e.ExtractedComments, trimCommentBody(trimmed[2:]))
	case strings.HasPrefix(trimmed, "#|"):
		return p.parsePrevious(strings.TrimSpace(trimmed[2:]))
	default:
		p.field = fieldNone
		e.TranslatorComments = append(e.TranslatorComments, trimCommentBody(trimmed[1:]))
	}
	return nil
}

// trimCommentBody drops the single space that separates a comment marker
// from its text, keeping any further indentation.
func trimCommentBody(s string) string {
	return strings.TrimPrefix(s, " ")
}

// splitKeyword splits "keyword value" at the first space or tab.
func splitKeyword(s string) (keyword, value string) {
	idx := strings.IndexAny(s, " \t")
	if idx < 0 {
		return s, ""
	}
	return s[:idx], strings.TrimSpace(s[idx+1:])
}

// parsePrevious handles the body of a "#|" line.
func (p *poParser) parsePrevious(body string) error {
	var (
		field  poField
		target *strings.Builder
		value  string
	)
	keyword, rest := splitKeyword(body)
	switch {
	case strings.HasPrefix(body, `"`):
		switch p.field {
		case fieldPrevMsgCtxt:
			target = &p.prevCtxt
		case fieldPrevMsgID:
			target = &p.prevID
		case fieldPrevMsgIDPlural:
			target = &p.prevIDPlural
		default:
			return p.errorf("unexpected continuation of previous string")
		}
		field, value = p.field, body
	case keyword == "msgctxt":
		field, target, value = fieldPrevMsgCtxt, &p.prevCtxt, rest
		if p.entry.PrevMsgCtxt == nil {
			p.entry.PrevMsgCtxt = new(string)
		}
	case keyword == "msgid_plural":
		field, target, value = fieldPrevMsgIDPlural, &p.prevIDPlural, rest
		if p.entry.PrevMsgIDPlural == nil {
			p.entry.PrevMsgIDPlural = new(string)
		}
	case keyword == "msgid":
		field, target, value = fieldPrevMsgID, &p.prevID, rest
		if p.entry.PrevMsgID == nil {
			p.entry.PrevMsgID = new(string)
		}
	default:
		return p.errorf("unknown previous field: %s", body)
	}
	s, err := p.unquote(value)
	if err != nil {
		return err
	}
	target.WriteString(s)
	p.field = field
	return nil
}

func (p *poParser) parseKeyword(trimmed string) error {
	var value string

	keyword, rest := splitKeyword(trimmed)
	switch {
	case strings.HasPrefix(trimmed, `"`):
		if p.field == fieldNone {
			return p.errorf("string without keyword")
		}
		value = trimmed
	case keyword == "msgctxt":
		if p.hasMsgStr {
			if err := p.flush(); err != nil {
				return err
			}
		} else if p.hasMsgID {
			return p.errorf("msgctxt after msgid")
		}
		p.startEntry()
		p.entry.MsgCtxt = new(string)
		p.field = fieldMsgCtxt
		value = rest
	case keyword == "msgid_plural":
		if !p.hasMsgID || p.hasMsgStr {
			return p.errorf("msgid_plural without msgid")
		}
		p.field = fieldMsgIDPlural
		value = rest
	case keyword == "msgid":
		if p.hasMsgStr {
			if err := p.flush(); err != nil {
				return err
			}
		} else if p.hasMsgID {
			return p.errorf("duplicate msgid")
		}
		p.startEntry()
		p.hasMsgID = true
		p.field = fieldMsgID
		value = rest
	case strings.HasPrefix(keyword, "msgstr["):
		if !p.hasMsgID {
			return p.errorf("msgstr without msgid")
		}
		end := strings.Index(trimmed, "]")
		if end < 0 {
			return p.errorf("invalid plural index")
		}
		idx, err := strconv.Atoi(trimmed[len("msgstr["):end])
		if err != nil || idx < 0 {
			return p.errorf("invalid plural index: %s", trimmed[:end+1])
		}
		if p.hasMsgStr && len(p.msgstrPlural) == 0 {
			return p.errorf("msgstr[%d] after msgstr", idx)
		}
		for len(p.msgstrPlural) <= idx {
			p.msgstrPlural = append(p.msgstrPlural, strings.Builder{})
		}
		p.hasMsgStr = true
		p.pluralIndex = idx
		p.field = fieldMsgStrPlural
		value = strings.TrimSpace(trimmed[end+1:])
	case keyword == "msgstr":
		if !p.hasMsgID {
			return p.errorf("msgstr without msgid")
		}
		if p.hasMsgStr {
			return p.errorf("duplicate msgstr")
		}
		p.hasMsgStr = true
		p.field = fieldMsgStr
		value = rest
	default:
		return p.errorf("unknown keyword: %s", trimmed)
	}

	s, err := p.unquote(value)
	if err != nil {
		return err
	}
	switch p.field {
	case fieldMsgCtxt:
		p.msgctxt.WriteString(s)
	case fieldMsgID:
		p.msgid.WriteString(s)
	case fieldMsgIDPlural:
		p.msgidPlural.WriteString(s)
	case fieldMsgStr:
		p.msgstr.WriteString(s)
	case fieldMsgStrPlural:
		p.msgstrPlural[p.pluralIndex].WriteString(s)
	default:
		return p.errorf("string without keyword")
	}
	return nil
}

// unquote strips the surrounding quotes of a PO string and decodes escapes.
func (p *poParser) unquote(value string) (string, error) {
	value = strings.TrimSpace(value)
	if len(value) < 2 || value[0] != '"' || value[len(value)-1] != '"' {
		return "", p.errorf("unterminated string: %s", value)
	}
	inner := value[1 : len(value)-1]
	// The closing quote must not be escaped.
	n := 0
	for i := len(inner) - 1; i >= 0 && inner[i] == '\\'; i-- {
		n++
	}
	if n%2 == 1 {
		return "", p.errorf("unterminated string: %s", value)
	}
	return poUnescape(inner), nil
}

// flush stores the pending entry into the catalog and resets parser state.
func (p *poParser) flush() error {
	e := p.entry
	defer p.reset()

	if e == nil || !p.hasMsgID {
		// Trailing comments with no message are dropped.
		return nil
	}
	if !p.hasMsgStr {
		return p.errorf("missing msgstr")
	}
	if e.MsgCtxt != nil {
		*e.MsgCtxt = p.msgctxt.String()
	}
	e.MsgID = p.msgid.String()
	e.MsgIDPlural = p.msgidPlural.String()
	e.MsgStr = p.msgstr.String()
	if len(p.msgstrPlural) > 0 {
		e.MsgStrPlural = make([]string, len(p.msgstrPlural))
		for i := range p.msgstrPlural {
			e.MsgStrPlural[i] = p.msgstrPlural[i].String()
		}
	}
	if e.PrevMsgCtxt != nil {
		*e.PrevMsgCtxt = p.prevCtxt.String()
	}
	if e.PrevMsgID != nil {
		*e.PrevMsgID = p.prevID.String()
	}
	if e.PrevMsgIDPlural != nil {
		*e.PrevMsgIDPlural = p.prevIDPlural.String()
	}

	c := p.catalog
	if c.Header == nil && len(c.Entries) == 0 &&
		e.MsgID == "" && e.MsgCtxt == nil && !e.IsObsolete {
		c.Header = e
		return nil
	}
	c.Entries = append(c.Entries, e)
	return nil
}

func (p *poParser) reset() {
	p.entry = nil
	p.field = fieldNone
	p.pluralIndex = 0
	p.hasMsgID = false
	p.hasMsgStr = false
	p.msgctxt.Reset()
	p.msgid.Reset()
	p.msgidPlural.Reset()
	p.msgstr.Reset()
	p.msgstrPlural = nil
	p.prevCtxt.Reset()
	p.prevID.Reset()
	p.prevIDPlural.Reset()
}

// parseMetadata splits the header msgstr into "Key: Value" fields.
// A line without a colon continues the value of the previous key.
func parseMetadata(msgstr string) Metadata {
	var (
		meta    Metadata
		lastKey string
	)
	for _, line := range strings.Split(msgstr, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if idx := strings.Index(line, ":"); idx >= 0 {
			lastKey = strings.TrimSpace(line[:idx])
			meta.set(lastKey, strings.TrimSpace(line[idx+1:]))
			continue
		}
		if lastKey != "" {
			meta.set(lastKey, meta.Get(lastKey)+"\n"+strings.TrimSpace(line))
		}
	}
	return meta
}

// poUnescape decodes PO escape sequences in s into real characters.
// PO uses \n (newline), \t (tab), \r (carriage return), \" (quote), \\ (backslash).
func poUnescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				b.WriteByte('\n')
				i++
			case 't':
				b.WriteByte('\t')
				i++
			case 'r':
				b.WriteByte('\r')
				i++
			case '"':
				b.WriteByte('"')
				i++
			case '\\':
				b.WriteByte('\\')
				i++
			default:
				b.WriteByte(s[i])
			}
		} else {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
