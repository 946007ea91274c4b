package models

import "time"

// SummaryTier is one of the hierarchical summary lengths.
type SummaryTier string

const (
	TierShort  SummaryTier = "short"
	TierMedium SummaryTier = "medium"
	TierLong   SummaryTier = "long"
)

type Transcript struct {
	ID        int64     `json:"id"`
	VideoID   string    `json:"video_id"`
	FullText  string    `json:"full_text"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

type TranscriptSegment struct {
	ID           int64    `json:"id"`
	TranscriptID int64    `json:"transcript_id"`
	Text         string   `json:"text"`
	StartTime    float64  `json:"start_time"`
	EndTime      float64  `json:"end_time"`
	Speaker      string   `json:"speaker,omitempty"`
	Confidence   *float64 `json:"confidence,omitempty"`
}

type Summary struct {
	ID        int64       `json:"id"`
	VideoID   string      `json:"video_id"`
	Tier      SummaryTier `json:"tier"`
	Content   string      `json:"content"`
	WordCount int         `json:"word_count"`
	CreatedAt time.Time   `json:"created_at"`
}

type Quote struct {
	ID             int64     `json:"id"`
	VideoID        string    `json:"video_id"`
	Text           string    `json:"text"`
	StartTime      float64   `json:"start_time"`
	EndTime        float64   `json:"end_time"`
	Speaker        string    `json:"speaker,omitempty"`
	QuoteType      string    `json:"quote_type"`
	RelevanceScore float64   `json:"relevance_score"`
	CreatedAt      time.Time `json:"created_at"`
}
