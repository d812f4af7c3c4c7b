package util

import (
	"testing"
)

func filterTestEntries() []*PoEntry {
	return []*PoEntry{
		{MsgID: "a", MsgStr: "A"},
		{MsgID: "b", MsgStr: ""},
		{MsgID: "c", MsgStr: "c"},
		{MsgID: "e", MsgStr: "E", IsFuzzy: true},
		{MsgID: "p", MsgIDPlural: "ps", MsgStrPlural: []string{"", ""}},
		{MsgID: "d", MsgStr: "", IsObsolete: true},
	}
}

func msgIDs(entries []*PoEntry) string {
	s := ""
	for _, e := range entries {
		s += e.MsgID
	}
	return s
}

func TestFilterPoEntries_Default(t *testing.T) {
	entries := filterTestEntries()
	got := FilterPoEntries(entries, EntryStateFilter{})
	if len(got) != len(entries) {
		t.Errorf("default filter: expected %d entries, got %d", len(entries), len(got))
	}
}

func TestFilterPoEntries(t *testing.T) {
	testCases := []struct {
		name   string
		filter EntryStateFilter
		want   string
	}{
		{"no-obsolete", EntryStateFilter{NoObsolete: true}, "abcep"},
		// Translated: a (A), c (same). Obsolete entries are kept.
		{"translated", EntryStateFilter{Translated: true}, "acd"},
		{"untranslated", EntryStateFilter{Untranslated: true, NoObsolete: true}, "bp"},
		{"fuzzy", EntryStateFilter{Fuzzy: true, NoObsolete: true}, "e"},
		{"translated or fuzzy", EntryStateFilter{Translated: true, Fuzzy: true, NoObsolete: true}, "ace"},
		{"only-same", EntryStateFilter{OnlySame: true}, "c"},
		{"only-obsolete", EntryStateFilter{OnlyObsolete: true}, "d"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := msgIDs(FilterPoEntries(filterTestEntries(), tc.filter))
			if got != tc.want {
				t.Errorf("want entries %q, got %q", tc.want, got)
			}
		})
	}
}

func TestEntryStateFilterValidate(t *testing.T) {
	valid := []EntryStateFilter{
		{},
		{Translated: true, Untranslated: true, Fuzzy: true, NoObsolete: true},
		{OnlySame: true, NoObsolete: true},
		{OnlyObsolete: true},
	}
	for _, f := range valid {
		if err := f.Validate(); err != nil {
			t.Errorf("%+v: unexpected error: %v", f, err)
		}
	}

	invalid := []EntryStateFilter{
		{OnlySame: true, OnlyObsolete: true},
		{OnlySame: true, Translated: true},
		{OnlyObsolete: true, Fuzzy: true},
		{OnlyObsolete: true, NoObsolete: true},
	}
	for _, f := range invalid {
		if err := f.Validate(); err == nil {
			t.Errorf("%+v: expected error", f)
		}
	}
}

func TestPoEntryHasFlag(t *testing.T) {
	e := &PoEntry{Flags: []string{"fuzzy", "c-format"}}
	if !e.HasFlag("c-format") {
		t.Error("expected c-format flag")
	}
	if e.HasFlag("python-format") {
		t.Error("unexpected python-format flag")
	}
}
