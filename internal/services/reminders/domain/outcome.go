package domain

import (
	"fmt"
	"strings"
)

// Outcome is the closed set of results a platform call can report
type Outcome int

const (
	Success Outcome = iota + 1
	InvalidUser
	UserDoesntExist
	Forbidden
	ThreadLocked
	DeletedComment
)

var outcomeNames = map[Outcome]string{
	Success:         "SUCCESS",
	InvalidUser:     "INVALID_USER",
	UserDoesntExist: "USER_DOESNT_EXIST",
	Forbidden:       "FORBIDDEN",
	ThreadLocked:    "THREAD_LOCKED",
	DeletedComment:  "DELETED_COMMENT",
}

// Outcomes lists every outcome in declaration order
var Outcomes = []Outcome{Success, InvalidUser, UserDoesntExist, Forbidden, ThreadLocked, DeletedComment}

func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Undeliverable reports outcomes that name a recipient that cannot receive messages
func (o Outcome) Undeliverable() bool { return o == InvalidUser || o == UserDoesntExist }

// ParseOutcome maps a platform error identifier to an Outcome.
// Unknown identifiers are an error, never a success
func ParseOutcome(name string) (Outcome, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	for o, s := range outcomeNames {
		if s == n {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown platform outcome %q", name)
}

// ItemState is where an item ended up after one pass through the intake
type ItemState string

const (
	StateFilteredDup         ItemState = "filtered_dup"
	StateFilteredSelf        ItemState = "filtered_self"
	StateFilteredNoKeyword   ItemState = "filtered_no_keyword"
	StateInvalid             ItemState = "invalid"
	StateSaveFailed          ItemState = "save_failed"
	StateAcked               ItemState = "acked"
	StateAlreadyAcked        ItemState = "already_acked"
	StateAckSkippedForbidden ItemState = "ack_skipped_forbidden"
	StateAckUndeliverable    ItemState = "ack_undeliverable"
	StateAckNotRecorded      ItemState = "ack_not_recorded"
)
