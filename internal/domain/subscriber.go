package domain

import (
	"fmt"
	"strconv"
	"time"
)

// Subscriber is one bot user. Created on first contact, flipped to
// subscribed on explicit opt-in, never deleted.
type Subscriber struct {
	ID         string    `json:"-"`
	JoinedDate time.Time `json:"joined_date"`
	CurrentDay int       `json:"current_day"`
	Subscribed bool      `json:"subscribed"`
}

// NewSubscriber creates an unsubscribed record for a first-contact user,
// remembering the campaign day at which they joined.
func NewSubscriber(id string, joined time.Time, currentDay int) *Subscriber {
	return &Subscriber{
		ID:         id,
		JoinedDate: joined,
		CurrentDay: currentDay,
	}
}

// SubscriberID converts a Telegram chat ID to the registry key
func SubscriberID(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// ChatID converts a registry key back to a Telegram chat ID
func ChatID(id string) (int64, error) {
	chatID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("subscriber ID %q is not a chat ID: %w", id, err)
	}
	return chatID, nil
}
