package util

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// ConvertOptions controls how a catalog is turned into JSON.
type ConvertOptions struct {
	Layout Layout
	Indent int
	Filter EntryStateFilter
}

// DefaultConvertOptions returns the options used when nothing is configured.
func DefaultConvertOptions() ConvertOptions {
	return ConvertOptions{Layout: LayoutPolib, Indent: DefaultIndent}
}

// ConvertCatalog writes the JSON document for c to w.
func ConvertCatalog(c *Catalog, w io.Writer, opts ConvertOptions) error {
	if err := opts.Filter.Validate(); err != nil {
		return err
	}
	entries := FilterPoEntries(c.Entries, opts.Filter)
	if len(entries) != len(c.Entries) {
		log.Debugf("selected %d of %d entries", len(entries), len(c.Entries))
	}
	doc, err := BuildDocument(c, entries, opts.Layout)
	if err != nil {
		return err
	}
	return WriteDocument(w, doc, opts.Indent)
}

// ConvertPoFile parses poFile and writes its JSON document to jsonFile.
// The catalog is parsed before jsonFile is touched, so a malformed input
// leaves an existing output file as it was. A jsonFile of "-" writes to
// stdout, or to os.Stdout when stdout is nil.
func ConvertPoFile(poFile, jsonFile string, stdout io.Writer, opts ConvertOptions) error {
	c, err := LoadCatalogFile(poFile)
	if err != nil {
		return err
	}
	if err := opts.Filter.Validate(); err != nil {
		return err
	}

	if jsonFile == "-" {
		if stdout == nil {
			stdout = os.Stdout
		}
		return ConvertCatalog(c, stdout, opts)
	}
	return writeJSONFile(jsonFile, func(w io.Writer) error {
		return ConvertCatalog(c, w, opts)
	})
}

func writeJSONFile(jsonFile string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(jsonFile)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", jsonFile, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", jsonFile, cerr)
		}
	}()
	if err = fn(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", jsonFile, err)
	}
	log.Debugf("wrote %s", jsonFile)
	return nil
}
