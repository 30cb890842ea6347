// Package timespec parses the time expression that follows a reminder command.
//
// Supported forms, case insensitive:
//
//	3 days | in 2 hours and 30 minutes | 1y 2mo | an hour | 1.5 weeks
//	tomorrow | next week | next month | next year
//	2026-01-31 | 2026-01-31 18:30 | 2026-01-31T18:30:00Z
//
// Relative expressions resolve against the creation time of the request,
// absolute ones are read as UTC
package timespec

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type unit int

const (
	second unit = iota
	minute
	hour
	day
	week
	fortnight
	month
	year
)

var unitNames = map[string]unit{
	"s": second, "sec": second, "secs": second, "second": second, "seconds": second,
	"m": minute, "min": minute, "mins": minute, "minute": minute, "minutes": minute,
	"h": hour, "hr": hour, "hrs": hour, "hour": hour, "hours": hour,
	"d": day, "day": day, "days": day,
	"w": week, "wk": week, "wks": week, "week": week, "weeks": week,
	"fortnight": fortnight, "fortnights": fortnight,
	"mo": month, "mos": month, "month": month, "months": month,
	"y": year, "yr": year, "yrs": year, "year": year, "years": year,
}

var numberWords = map[string]float64{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
	"half a": 0.5, "half an": 0.5,
}

// maxAmount bounds a single term so resolution stays inside time.Time range
const maxAmount = 100000

var (
	termRe = regexp.MustCompile(`^(\d+(?:\.\d+)?|half an?|an?|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve)\s*([a-z]+)`)
	sepRe  = regexp.MustCompile(`^(?:\s*,\s*|\s+and\s+|\s+)`)
	absRe  = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})(?:[ t](\d{1,2}):(\d{2})(?::(\d{2}))?)?\s*(?:z|utc)?\b`)
)

type term struct {
	n float64
	u unit
}

// Spec is a parsed time expression. The zero value is not valid
type Spec struct {
	// Text is the portion of the input that was consumed
	Text string

	terms []term
	abs   time.Time
}

// IsAbsolute reports whether the expression names a calendar time
func (s Spec) IsAbsolute() bool { return !s.abs.IsZero() }

// Parse reads the leading time expression of text
func Parse(text string) (Spec, bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.TrimPrefix(s, "in ")
	s = strings.TrimSpace(s)
	if s == "" {
		return Spec{}, false
	}

	if sp, ok := parseAbsolute(s); ok {
		return sp, true
	}
	if sp, ok := parseKeyword(s); ok {
		return sp, true
	}
	return parseRelative(s)
}

func parseKeyword(s string) (Spec, bool) {
	kw := []struct {
		word string
		t    term
	}{
		{"tomorrow", term{1, day}},
		{"next week", term{1, week}},
		{"next month", term{1, month}},
		{"next year", term{1, year}},
	}
	for _, k := range kw {
		if s == k.word || strings.HasPrefix(s, k.word+" ") {
			return Spec{Text: k.word, terms: []term{k.t}}, true
		}
	}
	return Spec{}, false
}

func parseAbsolute(s string) (Spec, bool) {
	m := absRe.FindStringSubmatch(s)
	if m == nil {
		return Spec{}, false
	}
	atoi := func(v string) int {
		n, _ := strconv.Atoi(v)
		return n
	}
	y, mo, d := atoi(m[1]), atoi(m[2]), atoi(m[3])
	hh, mm, ss := atoi(m[4]), atoi(m[5]), atoi(m[6])
	if mo < 1 || mo > 12 || d < 1 || d > 31 || hh > 23 || mm > 59 || ss > 59 {
		return Spec{}, false
	}
	t := time.Date(y, time.Month(mo), d, hh, mm, ss, 0, time.UTC)
	if t.Day() != d {
		return Spec{}, false // Feb 30 and friends normalize into the next month
	}
	return Spec{Text: strings.TrimSpace(m[0]), abs: t}, true
}

func parseRelative(s string) (Spec, bool) {
	var (
		terms    []term
		consumed int
	)
	rest := s
	for {
		m := termRe.FindStringSubmatchIndex(rest)
		if m == nil {
			break
		}
		numTxt := rest[m[2]:m[3]]
		unitTxt := rest[m[4]:m[5]]

		u, ok := unitNames[unitTxt]
		if !ok {
			break
		}
		n, ok := numberWords[numTxt]
		if !ok {
			v, err := strconv.ParseFloat(numTxt, 64)
			if err != nil {
				break
			}
			n = v
		}
		if n <= 0 || n > maxAmount || math.IsNaN(n) {
			return Spec{}, false
		}
		terms = append(terms, term{n: n, u: u})

		consumed += m[1]
		rest = rest[m[1]:]
		if sep := sepRe.FindString(rest); sep != "" {
			consumed += len(sep)
			rest = rest[len(sep):]
		}
	}
	if len(terms) == 0 {
		return Spec{}, false
	}
	return Spec{Text: strings.TrimSpace(s[:consumed]), terms: terms}, true
}

// Resolve returns the target time relative to base, always in UTC and
// truncated to the second. ok is false when the result is out of range
func (s Spec) Resolve(base time.Time) (time.Time, bool) {
	if s.IsAbsolute() {
		return s.abs, true
	}
	if len(s.terms) == 0 {
		return time.Time{}, false
	}
	t := base.UTC()
	for _, tm := range s.terms {
		var ok bool
		if t, ok = add(t, tm); !ok {
			return time.Time{}, false
		}
	}
	if t.Year() > 9999 {
		return time.Time{}, false
	}
	return t.Truncate(time.Second), true
}

// add applies one term. ok is false when the offset does not fit a Duration
func add(t time.Time, tm term) (time.Time, bool) {
	whole, frac := math.Modf(tm.n)
	switch tm.u {
	case month:
		return t.AddDate(0, int(whole), 0).Add(time.Duration(frac * 30 * float64(24*time.Hour))), true
	case year:
		return t.AddDate(int(whole), 0, 0).Add(time.Duration(frac * 365 * float64(24*time.Hour))), true
	}
	d := tm.n * float64(unitDuration(tm.u))
	if d >= math.MaxInt64 {
		return time.Time{}, false
	}
	return t.Add(time.Duration(d)), true
}

func unitDuration(u unit) time.Duration {
	switch u {
	case second:
		return time.Second
	case minute:
		return time.Minute
	case hour:
		return time.Hour
	case day:
		return 24 * time.Hour
	case week:
		return 7 * 24 * time.Hour
	case fortnight:
		return 14 * 24 * time.Hour
	}
	return 0
}
