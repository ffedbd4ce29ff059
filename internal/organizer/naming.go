package organizer

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UnknownPatient is the folder name used when no patient can be extracted
// from the operator's input.
const UnknownPatient = "PACIENTE_DESCONOCIDO"

// DefaultMarker is the token that separates a document label from the patient name.
const DefaultMarker = "SS"

// illegalChars are the characters Windows refuses in file and folder names.
const illegalChars = `<>:"/\|?*`

// placeholder replaces each illegal character one for one.
const placeholder = "_"

// MonthNames maps month numbers to the Spanish names used for folder segments.
var MonthNames = map[int]string{
	1:  "ENERO",
	2:  "FEBRERO",
	3:  "MARZO",
	4:  "ABRIL",
	5:  "MAYO",
	6:  "JUNIO",
	7:  "JULIO",
	8:  "AGOSTO",
	9:  "SEPTIEMBRE",
	10: "OCTUBRE",
	11: "NOVIEMBRE",
	12: "DICIEMBRE",
}

var illegalReplacer = func() *strings.Replacer {
	pairs := make([]string, 0, 2*len(illegalChars))
	for _, r := range illegalChars {
		pairs = append(pairs, string(r), placeholder)
	}
	return strings.NewReplacer(pairs...)
}()

// Sanitize replaces every illegal filename character with a placeholder and
// trims surrounding whitespace. Runs of illegal characters are not collapsed.
func Sanitize(raw string) string {
	return strings.TrimSpace(illegalReplacer.Replace(raw))
}

// ExtractPatient finds the first whitespace-separated token equal to, or
// ending with, marker (case-insensitive). When that token is the last one the
// patient is everything before it; otherwise it is everything after it.
// Returns UnknownPatient when no token qualifies or the result is empty.
func ExtractPatient(sanitized, marker string) string {
	if marker == "" {
		marker = DefaultMarker
	}
	upper := cases.Upper(language.Und)
	markerUpper := upper.String(marker)

	tokens := strings.Fields(sanitized)
	for i, tok := range tokens {
		if !strings.HasSuffix(upper.String(tok), markerUpper) {
			continue
		}
		var patient string
		if i == len(tokens)-1 {
			patient = strings.Join(tokens[:i], " ")
		} else {
			patient = strings.Join(tokens[i+1:], " ")
		}
		if patient = strings.TrimSpace(patient); patient == "" {
			return UnknownPatient
		}
		return patient
	}
	return UnknownPatient
}

// DatePath holds the three nested folders for a calendar day.
type DatePath struct {
	Year  string
	Month string
	Day   string
}

// BuildDatePath composes base/YYYY/"MM- MONTH"/"DD DE MONTH".
// monthNames is owned by the caller; a missing entry falls back to MonthNames.
func BuildDatePath(base string, year, month, day int, monthNames map[int]string) DatePath {
	name, ok := monthNames[month]
	if !ok {
		name, ok = MonthNames[month]
	}
	if !ok {
		name = strconv.Itoa(month)
	}
	name = cases.Upper(language.Spanish).String(name)

	yearPath := filepath.Join(base, fmt.Sprintf("%04d", year))
	monthPath := filepath.Join(yearPath, fmt.Sprintf("%02d- %s", month, name))
	dayPath := filepath.Join(monthPath, fmt.Sprintf("%02d DE %s", day, name))
	return DatePath{Year: yearPath, Month: monthPath, Day: dayPath}
}

// Segments returns the folder names below base, e.g. "2026", "01- ENERO", "28 DE ENERO".
func (d DatePath) Segments() (year, month, day string) {
	return filepath.Base(d.Year), filepath.Base(d.Month), filepath.Base(d.Day)
}
