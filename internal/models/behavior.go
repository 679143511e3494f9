package models

// DefaultBehaviorScore seeds the history of a newly added subject.
const DefaultBehaviorScore = 80

// BehaviorRecord is one behavior rating in the 0-100 range.
type BehaviorRecord struct {
	Date  string  `json:"date"`
	Score float64 `json:"score"`
}
