package models

import "time"

// ProviderSummary is what one provider returned for a search, without the listings.
type ProviderSummary struct {
	Provider   string       `bson:"provider" json:"provider"`
	Status     ResultStatus `bson:"status" json:"status"`
	Count      int          `bson:"count" json:"count"`
	Reason     string       `bson:"reason,omitempty" json:"reason,omitempty"`
	DurationMs int64        `bson:"duration_ms" json:"duration_ms"`
}

// SearchRecord is the audit row kept for every completed search.
type SearchRecord struct {
	ID         ObjectID          `bson:"_id,omitempty" json:"id"`
	Query      string            `bson:"query" json:"query"`
	Providers  []ProviderSummary `bson:"providers" json:"providers"`
	DurationMs int64             `bson:"duration_ms" json:"duration_ms"`
	CreatedAt  time.Time         `bson:"created_at" json:"created_at"`
}

func (SearchRecord) CollectionName() string {
	return "search_history"
}

func (r SearchRecord) GetObjectID() ObjectID {
	return r.ID
}

// SearchEvent is published once per completed search for downstream analytics.
type SearchEvent struct {
	Pattern    string            `json:"pattern"`
	Query      string            `json:"query"`
	Providers  []ProviderSummary `json:"providers"`
	DurationMs int64             `json:"duration_ms"`
	OccurredAt time.Time         `json:"occurred_at"`
}

const SearchCompletedPattern = "search.completed"

func NewSearchEvent(r SearchRecord) SearchEvent {
	return SearchEvent{
		Pattern:    SearchCompletedPattern,
		Query:      r.Query,
		Providers:  r.Providers,
		DurationMs: r.DurationMs,
		OccurredAt: r.CreatedAt,
	}
}
