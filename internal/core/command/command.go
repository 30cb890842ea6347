// Package command recognizes the reminder command in free text and pulls out
// the parts the intake needs: the time expression and the quoted message
package command

import (
	"regexp"
	"strings"
)

// Keyword is the search term sent to the feed
const Keyword = "remindme"

// Tokens are the two spellings that trigger a reminder
var Tokens = []string{"!remindme", "remindme!"}

// Has reports whether body carries a command token, ignoring case, width and
// invisible formatting characters
func Has(body string) bool {
	f := Fold(body)
	for _, t := range Tokens {
		if strings.Contains(f, t) {
			return true
		}
	}
	return false
}

var tokenRe = regexp.MustCompile(`(?i)!remindme|remindme!`)

// quoted matches straight or typographic double quotes
var quotedRe = regexp.MustCompile(`["“”]([^"“”]*)["“”]`)

// After returns the text on the token's line that follows the first token,
// or "" when body has no token in its raw form
func After(body string) string {
	loc := tokenRe.FindStringIndex(body)
	if loc == nil {
		return ""
	}
	rest := body[loc[1]:]
	if i := strings.IndexAny(rest, "\r\n"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

// TimeText is the folded token line with any quoted message removed, the
// input for the time expression parser
func TimeText(body string) string {
	rest := After(Fold(body))
	if i := strings.IndexAny(rest, "\"“”"); i >= 0 {
		rest = rest[:i]
	}
	return strings.TrimSpace(rest)
}

// Message returns the first double-quoted span after the token. Empty or
// missing quotes give nil
func Message(body string) *string {
	loc := tokenRe.FindStringIndex(body)
	if loc == nil {
		return nil
	}
	m := quotedRe.FindStringSubmatch(body[loc[1]:])
	if m == nil {
		return nil
	}
	msg := strings.TrimSpace(Clean(m[1]))
	if msg == "" {
		return nil
	}
	return &msg
}
