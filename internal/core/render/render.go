// Package render builds the outbound texts: the confirmation reply on a
// thread, its count update and the direct message sent when a reminder is due
package render

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"
)

//go:embed templates/*.tmpl
var files embed.FS

// StampLayout is how times are shown to users
const StampLayout = "2006-01-02 15:04:05"

var tmpl = template.Must(template.New("render").Funcs(template.FuncMap{
	"stamp":  func(t time.Time) string { return t.UTC().Format(StampLayout) },
	"delta":  func(from, to time.Time) string { return Humanize(to.Sub(from)) },
	"others": others,
	"clip":   clip,
}).ParseFS(files, "templates/*.tmpl"))

// Confirmation is the view for the reply posted under a request
type Confirmation struct {
	Bot      string
	Source   string
	Message  string
	Now      time.Time
	TargetAt time.Time
	// Count is the number of reminders folded into the thread, 1 for a fresh ack
	Count int
}

// Due is the view for the direct message sent once a reminder is due
type Due struct {
	Bot         string
	Source      string
	Message     string
	RequestedAt time.Time
}

// ConfirmationText renders the thread reply
func ConfirmationText(v Confirmation) (string, error) {
	if v.Count < 1 {
		v.Count = 1
	}
	return exec("confirmation", v)
}

// DueSubject renders the direct message subject
func DueSubject(v Due) (string, error) { return exec("due_subject", v) }

// DueBody renders the direct message body
func DueBody(v Due) (string, error) { return exec("due_body", v) }

func exec(name string, data any) (string, error) {
	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return b.String(), nil
}

// Humanize spells d with its two most significant units, rounded to the minute
func Humanize(d time.Duration) string {
	d = d.Round(time.Minute)
	if d < time.Minute {
		return "less than a minute"
	}
	units := []struct {
		name string
		size time.Duration
	}{
		{"year", 365 * 24 * time.Hour},
		{"day", 24 * time.Hour},
		{"hour", time.Hour},
		{"minute", time.Minute},
	}
	var parts []string
	for _, u := range units {
		if len(parts) == 2 {
			break
		}
		n := d / u.size
		if n == 0 {
			if len(parts) > 0 {
				break
			}
			continue
		}
		d -= n * u.size
		parts = append(parts, plural(int64(n), u.name))
	}
	return strings.Join(parts, " ")
}

func plural(n int64, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// others names everyone but the first requester
func others(count int) string {
	n := count - 1
	if n == 1 {
		return "1 other"
	}
	return fmt.Sprintf("%d others", n)
}

func clip(s string, n int) string {
	r := []rune(strings.Join(strings.Fields(s), " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-3]) + "..."
}
