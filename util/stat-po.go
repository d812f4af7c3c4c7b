// Package util provides PO and converted JSON report statistics.
package util

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// PoReportStats holds statistics for a PO file.
type PoReportStats struct {
	Translated   int // Entries with non-empty translation, not fuzzy (same included)
	Untranslated int // Entries with empty msgstr
	Same         int // Entries where msgstr equals msgid (suspect untranslated)
	Fuzzy        int // Entries with fuzzy flag
	Obsolete     int // Obsolete entries (#~ format)
}

// Total returns the number of non-obsolete entries.
func (s *PoReportStats) Total() int {
	return s.Translated + s.Untranslated + s.Fuzzy
}

// statEntry is the subset of entry state needed for counting.
type statEntry struct {
	msgid    string
	msgstr   []string
	fuzzy    bool
	obsolete bool
}

func (s *PoReportStats) add(e statEntry) {
	if e.obsolete {
		s.Obsolete++
		return
	}
	if e.fuzzy {
		s.Fuzzy++
		return
	}
	hasTranslation := false
	for _, str := range e.msgstr {
		if str != "" {
			hasTranslation = true
			break
		}
	}
	if !hasTranslation {
		s.Untranslated++
		return
	}
	if len(e.msgstr) > 0 && e.msgstr[0] == e.msgid {
		// To be compatible with msgfmt --statistics, we count same as translated.
		s.Same++
	}
	s.Translated++
}

// CountCatalogStats returns entry statistics for a parsed catalog.
func CountCatalogStats(c *Catalog) *PoReportStats {
	stats := &PoReportStats{}
	for _, e := range c.Entries {
		se := statEntry{
			msgid:    e.MsgID,
			fuzzy:    e.IsFuzzy,
			obsolete: e.IsObsolete,
		}
		if len(e.MsgStrPlural) > 0 {
			se.msgstr = e.MsgStrPlural
		} else {
			se.msgstr = []string{e.MsgStr}
		}
		stats.add(se)
	}
	return stats
}

// IsJSONContent returns true if data looks like a JSON document.
func IsJSONContent(data []byte) bool {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	return len(data) > 0 && (data[0] == '{' || data[0] == '[')
}

// CountJSONReportStats counts entries in a JSON document of any layout.
// gjson is used so that hand-edited documents with stray fields still load.
func CountJSONReportStats(data []byte) (*PoReportStats, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON document")
	}
	root := gjson.ParseBytes(data)
	var entries gjson.Result
	switch {
	case root.IsArray():
		entries = root
	case root.Get("entries").IsArray():
		entries = root.Get("entries")
	default:
		return nil, fmt.Errorf("no entries found in JSON document")
	}

	stats := &PoReportStats{}
	for _, r := range entries.Array() {
		se := statEntry{
			msgid:    r.Get("msgid").String(),
			fuzzy:    r.Get("fuzzy").Bool(),
			obsolete: r.Get("obsolete").Bool(),
		}
		for _, flag := range r.Get("flags").Array() {
			if flag.String() == "fuzzy" {
				se.fuzzy = true
			}
		}
		plural := r.Get("msgstr_plural")
		switch {
		case plural.IsArray() && len(plural.Array()) > 0:
			for _, s := range plural.Array() {
				se.msgstr = append(se.msgstr, s.String())
			}
		case plural.IsObject() && len(plural.Map()) > 0:
			plural.ForEach(func(_, value gjson.Result) bool {
				se.msgstr = append(se.msgstr, value.String())
				return true
			})
		default:
			se.msgstr = []string{r.Get("msgstr").String()}
		}
		stats.add(se)
	}
	log.Debugf("counted %d entries in JSON document", len(entries.Array()))
	return stats, nil
}

// CountFileReportStats returns statistics for a PO file or a converted
// JSON file, chosen by content.
func CountFileReportStats(path string) (*PoReportStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if strings.HasSuffix(path, ".json") || IsJSONContent(data) {
		stats, err := CountJSONReportStats(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return stats, nil
	}
	c, err := LoadCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return CountCatalogStats(c), nil
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}

// FormatStatLine formats stats in one line, similar to msgfmt --statistics,
// but also includes same and obsolete. Only non-zero categories are shown.
func FormatStatLine(stats *PoReportStats) string {
	var parts []string
	if stats.Translated > 0 {
		parts = append(parts, pluralize(stats.Translated, "translated message", "translated messages"))
	}
	if stats.Fuzzy > 0 {
		parts = append(parts, pluralize(stats.Fuzzy, "fuzzy translation", "fuzzy translations"))
	}
	if stats.Untranslated > 0 {
		parts = append(parts, pluralize(stats.Untranslated, "untranslated message", "untranslated messages"))
	}
	if stats.Same > 0 {
		parts = append(parts, pluralize(stats.Same, "same message", "same messages"))
	}
	if stats.Obsolete > 0 {
		parts = append(parts, pluralize(stats.Obsolete, "obsolete entry", "obsolete entries"))
	}
	if len(parts) == 0 {
		return "0 translated messages.\n"
	}
	return strings.Join(parts, ", ") + ".\n"
}
