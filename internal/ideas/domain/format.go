package domain

import (
	"strconv"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FormatDate renders t as "D MONTHNAME YYYY", e.g. "5 MARCH 2023".
// The day is not zero-padded.
func FormatDate(t time.Time) string {
	// Casers are stateful; build one per call.
	month := cases.Upper(language.English).String(t.Month().String())
	return strconv.Itoa(t.Day()) + " " + month + " " + strconv.Itoa(t.Year())
}
