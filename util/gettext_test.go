package util

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

const samplePo = `# Translation of Hello.
# Copyright (C) 2024 Hello Team
#
#, fuzzy
msgid ""
msgstr ""
"Project-Id-Version: hello 1.0\n"
"Language: fr_FR\n"
"Content-Type: text/plain; charset=UTF-8\n"
"Plural-Forms: nplurals=2; plural=(n > 1);\n"

# Greeting shown at startup
#. TRANSLATORS: keep it short
#: src/main.c:12 src/ui.c:40
#, c-format
msgid "Hello"
msgstr "Bonjour"

msgctxt "menu"
msgid "File"
msgstr "Fichier"

#: src/list.c
msgid "One file"
msgid_plural "%d files"
msgstr[0] "Un fichier"
msgstr[1] "%d fichiers"

#, fuzzy
#| msgid "Old text"
msgid ""
"Multi "
"line"
msgstr "Sur "
"plusieurs lignes\n"

#~ msgid "Gone"
#~ msgstr "Parti"
`

func TestParseCatalogHeader(t *testing.T) {
	c, err := ParseCatalog([]byte(samplePo))
	if err != nil {
		t.Fatalf("ParseCatalog failed: %v", err)
	}
	if c.Header == nil {
		t.Fatal("expected header entry")
	}
	if !c.MetadataIsFuzzy {
		t.Error("expected fuzzy header")
	}
	wantComment := "Translation of Hello.\nCopyright (C) 2024 Hello Team\n"
	if got := c.HeaderComment(); got != wantComment {
		t.Errorf("header comment: want %q, got %q", wantComment, got)
	}
	wantMeta := Metadata{
		{Key: "Project-Id-Version", Value: "hello 1.0"},
		{Key: "Language", Value: "fr_FR"},
		{Key: "Content-Type", Value: "text/plain; charset=UTF-8"},
		{Key: "Plural-Forms", Value: "nplurals=2; plural=(n > 1);"},
	}
	if !reflect.DeepEqual(c.Metadata, wantMeta) {
		t.Errorf("metadata: want %v, got %v", wantMeta, c.Metadata)
	}
	if c.Encoding != "UTF-8" {
		t.Errorf("encoding: want UTF-8, got %s", c.Encoding)
	}
}

func TestParseCatalogEntries(t *testing.T) {
	c, err := ParseCatalog([]byte(samplePo))
	if err != nil {
		t.Fatalf("ParseCatalog failed: %v", err)
	}
	if len(c.Entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(c.Entries))
	}

	hello := c.Entries[0]
	if hello.MsgID != "Hello" || hello.MsgStr != "Bonjour" {
		t.Errorf("unexpected entry: %q => %q", hello.MsgID, hello.MsgStr)
	}
	if !reflect.DeepEqual(hello.TranslatorComments, []string{"Greeting shown at startup"}) {
		t.Errorf("translator comments: %q", hello.TranslatorComments)
	}
	if !reflect.DeepEqual(hello.ExtractedComments, []string{"TRANSLATORS: keep it short"}) {
		t.Errorf("extracted comments: %q", hello.ExtractedComments)
	}
	if !reflect.DeepEqual(hello.References, []string{"src/main.c:12", "src/ui.c:40"}) {
		t.Errorf("references: %q", hello.References)
	}
	if !reflect.DeepEqual(hello.Flags, []string{"c-format"}) || hello.IsFuzzy {
		t.Errorf("flags: %q, fuzzy: %v", hello.Flags, hello.IsFuzzy)
	}
	if hello.MsgCtxt != nil {
		t.Errorf("expected nil msgctxt, got %q", *hello.MsgCtxt)
	}
	if hello.LineNum != 12 {
		t.Errorf("linenum: want 12, got %d", hello.LineNum)
	}
	if len(hello.Comments) != 4 {
		t.Errorf("raw comments: want 4, got %d", len(hello.Comments))
	}

	file := c.Entries[1]
	if file.MsgCtxt == nil || *file.MsgCtxt != "menu" {
		t.Errorf("msgctxt: want menu, got %v", file.MsgCtxt)
	}
	if file.LineNum != 19 {
		t.Errorf("linenum: want 19, got %d", file.LineNum)
	}

	plural := c.Entries[2]
	if plural.MsgIDPlural != "%d files" {
		t.Errorf("msgid_plural: %q", plural.MsgIDPlural)
	}
	if !reflect.DeepEqual(plural.MsgStrPlural, []string{"Un fichier", "%d fichiers"}) {
		t.Errorf("msgstr_plural: %q", plural.MsgStrPlural)
	}
	if plural.MsgStr != "" {
		t.Errorf("plural entry should have empty msgstr, got %q", plural.MsgStr)
	}

	multi := c.Entries[3]
	if multi.MsgID != "Multi line" {
		t.Errorf("msgid: want %q, got %q", "Multi line", multi.MsgID)
	}
	if multi.MsgStr != "Sur plusieurs lignes\n" {
		t.Errorf("msgstr: got %q", multi.MsgStr)
	}
	if !multi.IsFuzzy {
		t.Error("expected fuzzy entry")
	}
	if multi.PrevMsgID == nil || *multi.PrevMsgID != "Old text" {
		t.Errorf("previous msgid: %v", multi.PrevMsgID)
	}
	if multi.PrevMsgCtxt != nil || multi.PrevMsgIDPlural != nil {
		t.Error("unexpected previous msgctxt or msgid_plural")
	}

	gone := c.Entries[4]
	if !gone.IsObsolete || gone.MsgID != "Gone" || gone.MsgStr != "Parti" {
		t.Errorf("obsolete entry: %+v", gone)
	}
}

func TestParseCatalogEscapes(t *testing.T) {
	po := `msgid "Tab\there \"quoted\" back\\slash"
msgstr "Line\nbreak\r end \\n literal \x kept"
`
	c, err := ParseCatalog([]byte(po))
	if err != nil {
		t.Fatalf("ParseCatalog failed: %v", err)
	}
	if len(c.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(c.Entries))
	}
	e := c.Entries[0]
	if want := "Tab\there \"quoted\" back\\slash"; e.MsgID != want {
		t.Errorf("msgid: want %q, got %q", want, e.MsgID)
	}
	if want := "Line\nbreak\r end \\n literal \\x kept"; e.MsgStr != want {
		t.Errorf("msgstr: want %q, got %q", want, e.MsgStr)
	}
}

func TestParseCatalogWithoutHeader(t *testing.T) {
	po := "msgid \"a\"\nmsgstr \"A\"\n\nmsgid \"\"\nmsgstr \"empty\"\n"
	c, err := ParseCatalog([]byte(po))
	if err != nil {
		t.Fatalf("ParseCatalog failed: %v", err)
	}
	if c.Header != nil {
		t.Error("header must only be taken from the first entry")
	}
	if len(c.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(c.Entries))
	}
	if c.Encoding != DefaultEncoding {
		t.Errorf("encoding: want %s, got %s", DefaultEncoding, c.Encoding)
	}
	if len(c.Metadata) != 0 {
		t.Errorf("expected no metadata, got %v", c.Metadata)
	}
}

func TestParseCatalogCRLFAndBOM(t *testing.T) {
	po := "\xef\xbb\xbfmsgid \"\"\r\nmsgstr \"\"\r\n\"Language: de\\n\"\r\n\r\nmsgid \"Yes\"\r\nmsgstr \"Ja\"\r\n"
	c, err := ParseCatalog([]byte(po))
	if err != nil {
		t.Fatalf("ParseCatalog failed: %v", err)
	}
	if c.Metadata.Get("Language") != "de" {
		t.Errorf("language: got %q", c.Metadata.Get("Language"))
	}
	if len(c.Entries) != 1 || c.Entries[0].MsgStr != "Ja" {
		t.Errorf("unexpected entries: %+v", c.Entries)
	}
}

func TestParseCatalogCommentsStartNewEntry(t *testing.T) {
	// No blank line between entries.
	po := `msgid "a"
msgstr "A"
# second
msgid "b"
msgstr "B"
msgid "c"
msgstr "C"
`
	c, err := ParseCatalog([]byte(po))
	if err != nil {
		t.Fatalf("ParseCatalog failed: %v", err)
	}
	if len(c.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(c.Entries))
	}
	if !reflect.DeepEqual(c.Entries[1].TranslatorComments, []string{"second"}) {
		t.Errorf("comment attached to wrong entry: %+v", c.Entries[1])
	}
	if c.Entries[2].LineNum != 6 {
		t.Errorf("linenum: want 6, got %d", c.Entries[2].LineNum)
	}
}

func TestParseCatalogObsoletePrevious(t *testing.T) {
	po := `#~| msgctxt "old"
#~| msgid "Old"
#~ msgctxt "ctx"
#~ msgid "New"
#~ msgid_plural "News"
#~ msgstr[0] "Nouveau"
#~ msgstr[1] "Nouveaux"
`
	c, err := ParseCatalog([]byte(po))
	if err != nil {
		t.Fatalf("ParseCatalog failed: %v", err)
	}
	if len(c.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(c.Entries))
	}
	e := c.Entries[0]
	if !e.IsObsolete {
		t.Error("expected obsolete entry")
	}
	if e.PrevMsgCtxt == nil || *e.PrevMsgCtxt != "old" || e.PrevMsgID == nil || *e.PrevMsgID != "Old" {
		t.Errorf("previous fields: %v %v", e.PrevMsgCtxt, e.PrevMsgID)
	}
	if e.MsgCtxt == nil || *e.MsgCtxt != "ctx" {
		t.Errorf("msgctxt: %v", e.MsgCtxt)
	}
	if len(e.MsgStrPlural) != 2 || e.MsgStrPlural[1] != "Nouveaux" {
		t.Errorf("msgstr_plural: %q", e.MsgStrPlural)
	}
}

func TestParseCatalogSyntaxErrors(t *testing.T) {
	testCases := []struct {
		name string
		po   string
		line int
		msg  string
	}{
		{
			name: "unterminated string",
			po:   "msgid \"Hello\nmsgstr \"\"\n",
			line: 1,
			msg:  "unterminated string",
		},
		{
			name: "escaped closing quote",
			po:   "msgid \"Hello\\\"\nmsgstr \"\"\n",
			line: 1,
			msg:  "unterminated string",
		},
		{
			name: "unknown keyword",
			po:   "msgid \"a\"\nmsgstr \"A\"\n\nmsgfoo \"x\"\n",
			line: 4,
			msg:  "unknown keyword",
		},
		{
			name: "msgstr without msgid",
			po:   "msgstr \"A\"\n",
			line: 1,
			msg:  "msgstr without msgid",
		},
		{
			name: "string without keyword",
			po:   "\"dangling\"\n",
			line: 1,
			msg:  "string without keyword",
		},
		{
			name: "missing msgstr",
			po:   "msgid \"a\"\n\nmsgid \"b\"\nmsgstr \"B\"\n",
			line: 2,
			msg:  "missing msgstr",
		},
		{
			name: "duplicate msgid",
			po:   "msgid \"a\"\nmsgid \"b\"\nmsgstr \"B\"\n",
			line: 2,
			msg:  "duplicate msgid",
		},
		{
			name: "invalid plural index",
			po:   "msgid \"a\"\nmsgid_plural \"as\"\nmsgstr[x] \"A\"\n",
			line: 3,
			msg:  "invalid plural index",
		},
		{
			name: "duplicate msgstr",
			po:   "msgid \"a\"\nmsgstr \"b\"\nmsgstr \"c\"\n",
			line: 3,
			msg:  "duplicate msgstr",
		},
		{
			name: "msgstr[N] after msgstr",
			po:   "msgid \"a\"\nmsgid_plural \"as\"\nmsgstr \"b\"\nmsgstr[0] \"c\"\n",
			line: 4,
			msg:  "msgstr[0] after msgstr",
		},
		{
			name: "invalid UTF-8",
			po:   "msgid \"Coffee\"\nmsgstr \"Caf\xe9\"\n",
			line: 2,
			msg:  "invalid UTF-8",
		},
		{
			name: "msgstr[] without msgid_plural",
			po:   "msgid \"a\"\nmsgstr[0] \"A\"\n",
			line: 1,
			msg:  "msgstr[] without msgid_plural",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tc.po))
			if err == nil {
				t.Fatal("expected syntax error")
			}
			var synErr *PoSyntaxError
			if !errors.As(err, &synErr) {
				t.Fatalf("expected *PoSyntaxError, got %T: %v", err, err)
			}
			if synErr.Line != tc.line {
				t.Errorf("line: want %d, got %d (%v)", tc.line, synErr.Line, err)
			}
			if !strings.Contains(err.Error(), tc.msg) {
				t.Errorf("error %q should contain %q", err, tc.msg)
			}
		})
	}
}

func TestParseCatalogTabSeparatedKeywords(t *testing.T) {
	po := "#| msgid\t\"old\"\n" +
		"msgctxt\t\"ctx\"\n" +
		"msgid\t\"a\"\n" +
		"msgid_plural\t\"as\"\n" +
		"msgstr[0]\t\"A\"\n" +
		"msgstr[1] \t \"As\"\n"
	c, err := ParseCatalog([]byte(po))
	if err != nil {
		t.Fatalf("ParseCatalog failed: %v", err)
	}
	if len(c.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(c.Entries))
	}
	e := c.Entries[0]
	if e.PrevMsgID == nil || *e.PrevMsgID != "old" {
		t.Errorf("previous msgid: %v", e.PrevMsgID)
	}
	if e.MsgCtxt == nil || *e.MsgCtxt != "ctx" {
		t.Errorf("msgctxt: %v", e.MsgCtxt)
	}
	if e.MsgID != "a" || e.MsgIDPlural != "as" {
		t.Errorf("msgid: %q, msgid_plural: %q", e.MsgID, e.MsgIDPlural)
	}
	if !reflect.DeepEqual(e.MsgStrPlural, []string{"A", "As"}) {
		t.Errorf("msgstr_plural: %q", e.MsgStrPlural)
	}
}

func TestParseCatalogFuzzyFromFlags(t *testing.T) {
	po := "#, c-format\n#, fuzzy, no-wrap\nmsgid \"a\"\nmsgstr \"A\"\n"
	c, err := ParseCatalog([]byte(po))
	if err != nil {
		t.Fatalf("ParseCatalog failed: %v", err)
	}
	e := c.Entries[0]
	if !e.IsFuzzy || !e.HasFlag("no-wrap") {
		t.Errorf("flags %q, fuzzy %v", e.Flags, e.IsFuzzy)
	}
}

func TestParseMetadataContinuation(t *testing.T) {
	meta := parseMetadata("Language: ja\nX-Note: first\nsecond part\n")
	if got := meta.Get("X-Note"); got != "first\nsecond part" {
		t.Errorf("continuation: got %q", got)
	}
	if got := meta.Get("Missing"); got != "" {
		t.Errorf("missing key: got %q", got)
	}
}
