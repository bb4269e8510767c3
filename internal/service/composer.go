package service

import (
	"fmt"

	"advent-bot/internal/content"
	"advent-bot/internal/domain"
)

// Composer assembles the deliverable for one campaign day from the content
// store. The result is fully determined by the day number and the datasets.
type Composer struct {
	store *content.Store
}

// NewComposer creates an episode composer over the given content store
func NewComposer(store *content.Store) *Composer {
	return &Composer{store: store}
}

// Compose builds the episode for the given day: an HTML caption with the
// day's author, the day image when present, and the action buttons. Clue and
// question actions are always attached; the text action only on every third
// day.
func (c *Composer) Compose(day int) domain.Episode {
	actions := []domain.Action{
		{Kind: domain.ActionClue, Day: day},
		{Kind: domain.ActionQuestion, Day: day},
	}
	if day%3 == 0 {
		actions = append(actions, domain.Action{Kind: domain.ActionText, Day: day})
	}

	return domain.Episode{
		Day:       day,
		Caption:   fmt.Sprintf("<b>ДЕНЬ %d - %s</b>", day, c.store.Author(day)),
		ImagePath: c.store.ImagePath(day),
		Actions:   actions,
	}
}
