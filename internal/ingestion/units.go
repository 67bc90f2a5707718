// Package ingestion extracts unit-of-study references from free text and
// catalogue pages so they can be fed into the planning prompt.
package ingestion

import (
	"regexp"
	"strings"
)

// UnitRef is one unit reference recovered from intake text or a catalogue
// page. Title may be empty when only a bare code was found.
type UnitRef struct {
	Code  string `json:"code"`
	Title string `json:"title,omitempty"`
}

// unitCodeRe matches national unit codes like CPCCWHS2001 or BSBWHS311.
var unitCodeRe = regexp.MustCompile(`\b[A-Z]{2,10}\d{3,4}\b`)

// titleTrimRe strips the separators that commonly sit between a unit code
// and its title in pasted lists.
var titleTrimRe = regexp.MustCompile(`^[\s\-–:.|]+`)

// ParseUnitRefs scans text line by line for unit codes. The remainder of a
// line after the first code is taken as the unit title. Duplicate codes are
// dropped, input order is preserved.
func ParseUnitRefs(text string) []UnitRef {
	var refs []UnitRef
	seen := make(map[string]bool)

	for _, line := range strings.Split(text, "\n") {
		codes := unitCodeRe.FindAllStringIndex(line, -1)
		if len(codes) == 0 {
			continue
		}

		// A line with several codes is a code list; a line with one code
		// is a "code title" pair.
		if len(codes) > 1 {
			for _, loc := range codes {
				code := line[loc[0]:loc[1]]
				if !seen[code] {
					seen[code] = true
					refs = append(refs, UnitRef{Code: code})
				}
			}
			continue
		}

		loc := codes[0]
		code := line[loc[0]:loc[1]]
		if seen[code] {
			continue
		}
		seen[code] = true

		title := titleTrimRe.ReplaceAllString(line[loc[1]:], "")
		refs = append(refs, UnitRef{Code: code, Title: strings.TrimSpace(title)})
	}

	return refs
}

// Codes returns just the codes of a reference list.
func Codes(refs []UnitRef) []string {
	out := make([]string, len(refs))
	for i, ref := range refs {
		out[i] = ref.Code
	}
	return out
}

// FormatForPrompt renders unit references as one "CODE Title" line each,
// ready for inclusion in the intake block.
func FormatForPrompt(refs []UnitRef) string {
	var b strings.Builder
	for _, ref := range refs {
		b.WriteString(ref.Code)
		if ref.Title != "" {
			b.WriteString(" ")
			b.WriteString(ref.Title)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
