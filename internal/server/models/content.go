package models

import "time"

// Media types accepted for content uploads.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Content is a published media item. MediaKey references an object in the
// media store; MediaURL is derived per response by the media service and is
// never persisted.
type Content struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	MediaKey     string    `json:"media_key"`
	MediaType    string    `json:"media_type"`
	MediaURL     string    `json:"media_url,omitempty"`
	CTAButtons   []string  `json:"cta_buttons"`
	Likes        int64     `json:"likes"`
	TipsReceived float64   `json:"tips_received"`
	CreatedAt    time.Time `json:"created_at"`
}
