package dto

import (
	"internhub/internal/domain/internship"
	"internhub/internal/domain/matching"
	"internhub/internal/filter"
)

type InternshipListResponse struct {
	Items []internship.Internship `json:"items"`
	Total int                     `json:"total"`
	// Filters echoes the state the list was computed from.
	Filters filter.State `json:"filters"`
}

type MatchResponse struct {
	Internship internship.Internship `json:"internship"`
	Match      matching.Result       `json:"match"`
}

type CommentaryResponse struct {
	Commentary string `json:"commentary"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}
