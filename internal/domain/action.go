package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ActionKind tags a button press with the effect it requests
type ActionKind string

const (
	ActionBackstory ActionKind = "backstory"
	ActionSubscribe ActionKind = "subscribe"
	ActionClue      ActionKind = "clue"
	ActionQuestion  ActionKind = "question"
	ActionText      ActionKind = "text"
)

// Action is a decoded callback token: what the user asked for and, for
// day-scoped kinds, which campaign day it refers to.
type Action struct {
	Kind ActionKind
	Day  int
}

// Token encodes the action as Telegram callback data
func (a Action) Token() string {
	switch a.Kind {
	case ActionBackstory, ActionSubscribe:
		return string(a.Kind)
	default:
		return fmt.Sprintf("%s_%d", a.Kind, a.Day)
	}
}

// ParseAction decodes a callback token. Returns an error for anything that
// is not a known kind with a well-formed day; callers log and drop those.
func ParseAction(token string) (Action, error) {
	switch token {
	case string(ActionBackstory):
		return Action{Kind: ActionBackstory}, nil
	case string(ActionSubscribe):
		return Action{Kind: ActionSubscribe}, nil
	}

	kind, dayStr, found := strings.Cut(token, "_")
	if !found {
		return Action{}, fmt.Errorf("malformed action token %q", token)
	}

	switch ActionKind(kind) {
	case ActionClue, ActionQuestion, ActionText:
	default:
		return Action{}, fmt.Errorf("unknown action kind %q", kind)
	}

	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return Action{}, fmt.Errorf("malformed day in action token %q: %w", token, err)
	}

	return Action{Kind: ActionKind(kind), Day: day}, nil
}
