package models

import "time"

// Subscription is a subscriber→creator pair, unique per pair.
type Subscription struct {
	ID              string    `json:"id"`
	SubscriberID    string    `json:"subscriber_id"`
	CreatorUsername string    `json:"creator_username"`
	CreatedAt       time.Time `json:"created_at"`
}
