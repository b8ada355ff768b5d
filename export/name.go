package export

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	defaultStem  = "scan"
	maxStemRunes = 64
	stampLayout  = "20060102-150405"
)

// FileName returns a filesystem-safe ASCII file stem for a document titled
// display and captured at t: accents are folded ("Reçu" -> "Recu"), runs
// of anything other than letters and digits become one '-', and a
// timestamp is appended so repeated scans do not collide. A title with no
// usable characters yields "scan-<timestamp>".
func FileName(display string, t time.Time) string {
	stem := sanitize(display)
	if stem == "" {
		stem = defaultStem
	}
	if t.IsZero() {
		return stem
	}
	return stem + "-" + t.Format(stampLayout)
}

func sanitize(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	dash := false
	n := 0
	for _, r := range folded {
		if n >= maxStemRunes {
			break
		}
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			dash = false
			n++
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
			n++
		}
	}
	return strings.TrimRight(b.String(), "-")
}
