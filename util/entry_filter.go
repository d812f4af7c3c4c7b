// Package util provides entry state filtering for conversion.
package util

import "fmt"

// EntryStateFilter specifies which entry states to include.
type EntryStateFilter struct {
	// Translated: msgstr not empty, not fuzzy
	Translated bool
	// Untranslated: msgstr empty
	Untranslated bool
	// Fuzzy: marked fuzzy in comments
	Fuzzy bool
	// NoObsolete: exclude obsolete entries
	NoObsolete bool
	// OnlySame: only entries where msgstr == msgid (mutually exclusive with others)
	OnlySame bool
	// OnlyObsolete: only obsolete entries (mutually exclusive with others)
	OnlyObsolete bool
}

// HasStateFilter returns true if any of --translated, --untranslated, --fuzzy was set.
func (f EntryStateFilter) HasStateFilter() bool {
	return f.Translated || f.Untranslated || f.Fuzzy
}

// IsDefault returns true if the filter keeps every entry.
func (f EntryStateFilter) IsDefault() bool {
	return f == EntryStateFilter{}
}

// Validate reports combinations of options that cannot be satisfied together.
func (f EntryStateFilter) Validate() error {
	if f.OnlySame && f.OnlyObsolete {
		return fmt.Errorf("--only-same and --only-obsolete are mutually exclusive")
	}
	if (f.OnlySame || f.OnlyObsolete) && f.HasStateFilter() {
		return fmt.Errorf("--only-same and --only-obsolete are mutually exclusive with --translated, --untranslated, --fuzzy")
	}
	if f.OnlyObsolete && f.NoObsolete {
		return fmt.Errorf("--only-obsolete and --no-obsolete are mutually exclusive")
	}
	return nil
}

// FilterPoEntries returns the entries that match filter, in original order.
func FilterPoEntries(entries []*PoEntry, filter EntryStateFilter) []*PoEntry {
	if filter.IsDefault() {
		return entries
	}
	result := make([]*PoEntry, 0, len(entries))
	for _, e := range entries {
		if MatchPoEntryState(e, filter) {
			result = append(result, e)
		}
	}
	return result
}

// MatchPoEntryState returns true if the entry matches the filter.
func MatchPoEntryState(e *PoEntry, filter EntryStateFilter) bool {
	if filter.OnlySame {
		return isSamePoEntry(e) && !e.IsObsolete
	}
	if filter.OnlyObsolete {
		return e.IsObsolete
	}

	if e.IsObsolete {
		return !filter.NoObsolete
	}

	// State filters are OR-combined.
	if filter.HasStateFilter() {
		if filter.Translated && isTranslatedPoEntry(e) && !e.IsFuzzy {
			return true
		}
		if filter.Untranslated && isUntranslatedPoEntry(e) {
			return true
		}
		if filter.Fuzzy && e.IsFuzzy {
			return true
		}
		return false
	}

	return true
}

func isTranslatedPoEntry(e *PoEntry) bool {
	if len(e.MsgStrPlural) > 0 {
		for _, s := range e.MsgStrPlural {
			if s != "" {
				return true
			}
		}
		return false
	}
	return e.MsgStr != ""
}

func isUntranslatedPoEntry(e *PoEntry) bool {
	return !isTranslatedPoEntry(e)
}

func isSamePoEntry(e *PoEntry) bool {
	if len(e.MsgStrPlural) > 0 {
		return e.MsgStrPlural[0] == e.MsgID
	}
	return e.MsgStr == e.MsgID
}
