package util

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/qiniu/iconv"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultEncoding is assumed when a PO file declares no usable charset.
	DefaultEncoding = "utf-8"

	// charsetPlaceholder is the value left in untouched POT templates.
	charsetPlaceholder = "CHARSET"
)

var (
	contentTypeRegex = regexp.MustCompile(`(?i)Content-Type:[^\n]*`)
	charsetRegex     = regexp.MustCompile(`(?i)charset=([^\s;\\"]+)`)
)

// DetectCharset scans raw PO content for the charset declared in the
// Content-Type header. Returns "" if none is declared.
func DetectCharset(data []byte) string {
	header := contentTypeRegex.Find(data)
	if header == nil {
		return ""
	}
	return charsetOf(string(header))
}

// charsetOf returns the charset= parameter of a Content-Type value, or ""
// when it is missing or still the template placeholder.
func charsetOf(contentType string) string {
	m := charsetRegex.FindStringSubmatch(contentType)
	if m == nil || m[1] == charsetPlaceholder {
		return ""
	}
	return m[1]
}

func charsetFromContentType(contentType string) string {
	if charset := charsetOf(contentType); charset != "" {
		return charset
	}
	return DefaultEncoding
}

// IsUTF8 returns true if charset names UTF-8 (or its ASCII subset).
func IsUTF8(charset string) bool {
	if charset == "" {
		return true
	}
	return sameEncoding(charset, "UTF-8") || sameEncoding(charset, "ASCII") ||
		sameEncoding(charset, "US-ASCII")
}

func sameEncoding(enc1, enc2 string) bool {
	enc1 = strings.Replace(strings.ToLower(enc1), "-", "", -1)
	enc2 = strings.Replace(strings.ToLower(enc2), "-", "", -1)
	return enc1 == enc2
}

// ConvertToUTF8 converts data from charset to UTF-8 using iconv.
func ConvertToUTF8(data []byte, charset string) ([]byte, error) {
	if IsUTF8(charset) || len(data) == 0 {
		return data, nil
	}
	cd, err := iconv.Open("UTF-8", charset)
	if err != nil {
		return nil, fmt.Errorf("iconv.Open failed for charset %s: %w", charset, err)
	}
	defer cd.Close()

	// Every supported charset needs at most 4 UTF-8 bytes per input byte.
	outbuf := make([]byte, 4*len(data)+16)
	out, inleft, err := cd.Conv(data, outbuf)
	if err != nil {
		return nil, fmt.Errorf("bad %s characters near byte %d: %w",
			charset, len(data)-inleft, err)
	}
	if inleft > 0 {
		return nil, fmt.Errorf("bad %s characters near byte %d", charset, len(data)-inleft)
	}
	result := make([]byte, len(out))
	copy(result, out)
	return result, nil
}

// LoadCatalog decodes raw PO content in its declared charset and parses it.
func LoadCatalog(data []byte) (*Catalog, error) {
	charset := DetectCharset(data)
	if !IsUTF8(charset) {
		log.Debugf("converting catalog from %s to UTF-8", charset)
		converted, err := ConvertToUTF8(data, charset)
		if err != nil {
			return nil, err
		}
		data = converted
	}
	return ParseCatalog(data)
}

// LoadCatalogFile reads and parses the PO file at path.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	c, err := LoadCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	log.Debugf("parsed %d entries from %s (charset %s)", len(c.Entries), path, c.Encoding)
	return c, nil
}
