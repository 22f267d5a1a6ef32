package video

import "time"

// Video is one HLS rendition attached to a chapter. PlaylistKey points at
// the m3u8 object in storage, KeyHex is the AES-128 key and never leaves
// the API except through the key endpoint.
type Video struct {
	ID          int64     `db:"id" json:"id"`
	ChapterID   int64     `db:"chapter_id" json:"chapter_id"`
	Title       string    `db:"title" json:"title"`
	PlaylistKey string    `db:"url" json:"-"`
	KeyHex      string    `db:"key_hex" json:"-"`
	Duration    int       `db:"duration" json:"duration"`
	Identifier  string    `db:"identifier" json:"identifier"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// PlaybackResponse is the player view of a video
type PlaybackResponse struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Duration      string `json:"duration"`
	PlaylistURL   string `json:"playlist_url"`
	PrevVideoID   *int64 `json:"prev_video_id,omitempty"`
	NextVideoID   *int64 `json:"next_video_id,omitempty"`
	CommentsCount int    `json:"comments_count"`
	Completed     bool   `json:"completed"`
}
