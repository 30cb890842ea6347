package timespec

import (
	"testing"
	"time"
)

var base = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestParseResolve_Relative(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want time.Time
		text string
	}{
		{"3 days", base.Add(72 * time.Hour), "3 days"},
		{"in 3 days", base.Add(72 * time.Hour), "3 days"},
		{"2 hours and 30 minutes", base.Add(150 * time.Minute), "2 hours and 30 minutes"},
		{"2h30m", base.Add(150 * time.Minute), "2h30m"},
		{"1y 2mo", base.AddDate(1, 2, 0), "1y 2mo"},
		{"an hour", base.Add(time.Hour), "an hour"},
		{"half an hour", base.Add(30 * time.Minute), "half an hour"},
		{"1.5 weeks", base.Add(252 * time.Hour), "1.5 weeks"},
		{"a fortnight please", base.Add(14 * 24 * time.Hour), "a fortnight"},
		{"two weeks, 1 day", base.Add(15 * 24 * time.Hour), "two weeks, 1 day"},
		{"tomorrow", base.Add(24 * time.Hour), "tomorrow"},
		{"Next Month to check", base.AddDate(0, 1, 0), "next month"},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			sp, ok := Parse(c.in)
			if !ok {
				t.Fatalf("Parse(%q) failed", c.in)
			}
			if sp.Text != c.text {
				t.Fatalf("Text = %q, want %q", sp.Text, c.text)
			}
			got, ok := sp.Resolve(base)
			if !ok || !got.Equal(c.want) {
				t.Fatalf("Resolve = %v (ok=%v), want %v", got, ok, c.want)
			}
		})
	}
}

func TestParseResolve_Absolute(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want time.Time
	}{
		{"2026-12-25", time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC)},
		{"2026-12-25 18:30", time.Date(2026, 12, 25, 18, 30, 0, 0, time.UTC)},
		{"2026-12-25T18:30:05Z", time.Date(2026, 12, 25, 18, 30, 5, 0, time.UTC)},
	}
	for _, c := range cases {
		sp, ok := Parse(c.in)
		if !ok || !sp.IsAbsolute() {
			t.Fatalf("Parse(%q) = %+v ok=%v", c.in, sp, ok)
		}
		got, _ := sp.Resolve(base)
		if !got.Equal(c.want) {
			t.Fatalf("Resolve(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParse_Rejects(t *testing.T) {
	t.Parallel()

	for _, in := range []string{
		"",
		"soon",
		"some day",
		"0 days",
		"3 parsecs",
		"2026-02-30",
		"2026-13-01",
		"999999 years",
	} {
		if sp, ok := Parse(in); ok {
			t.Fatalf("Parse(%q) should fail, got %+v", in, sp)
		}
	}
}

func TestResolve_TruncatesAndUTC(t *testing.T) {
	t.Parallel()

	sp, ok := Parse("1 minute")
	if !ok {
		t.Fatal("parse failed")
	}
	loc := time.FixedZone("X", 3600)
	got, ok := sp.Resolve(time.Date(2026, 1, 1, 10, 0, 0, 999, loc))
	if !ok {
		t.Fatal("resolve failed")
	}
	if got.Location() != time.UTC || got.Nanosecond() != 0 || got.Hour() != 9 || got.Minute() != 1 {
		t.Fatalf("unexpected %v", got)
	}
}

func TestResolve_ZeroSpec(t *testing.T) {
	t.Parallel()
	if _, ok := (Spec{}).Resolve(base); ok {
		t.Fatal("zero spec must not resolve")
	}
}

func TestResolve_OutOfRange(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in string
		ok bool
	}{
		{"5000 weeks", true},
		{"20000 weeks", false},
		{"100000 fortnights", false},
		{"9000 years", false},
	}
	for _, c := range cases {
		sp, ok := Parse(c.in)
		if !ok {
			t.Fatalf("Parse(%q) failed", c.in)
		}
		got, ok := sp.Resolve(base)
		if ok != c.ok {
			t.Fatalf("Resolve(%q) = %v (ok=%v), want ok=%v", c.in, got, ok, c.ok)
		}
		if ok && !got.After(base) {
			t.Fatalf("Resolve(%q) = %v, not after base", c.in, got)
		}
	}
}
