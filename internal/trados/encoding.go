package trados

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeReport converts raw report bytes to a UTF-8 string. Exports come in
// several encodings depending on the CAT-tool version and OS locale; the
// ladder tries UTF-8 with BOM, plain UTF-8, then Windows-1252 and Latin-1.
func DecodeReport(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)

	if utf8.Valid(raw) {
		return string(raw), nil
	}

	// Windows-1252 is a superset of Latin-1 in the printable range and the
	// more likely source for western-European exports, so try it first.
	for _, cm := range []*charmap.Charmap{charmap.Windows1252, charmap.ISO8859_1} {
		decoded, err := cm.NewDecoder().Bytes(raw)
		if err == nil && utf8.Valid(decoded) {
			return string(decoded), nil
		}
	}

	return "", fmt.Errorf("report is not valid UTF-8, Windows-1252, or Latin-1")
}
