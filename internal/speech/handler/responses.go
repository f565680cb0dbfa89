package handler

import (
	"time"

	"vowcraft/internal/speech"
)

// SpeechResponse is the HTTP representation of a speech.
type SpeechResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Role      string    `json:"role,omitempty"`
	Tone      string    `json:"tone,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Content   string    `json:"content"`
	Anonymous bool      `json:"anonymous"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromSpeech converts a domain speech to its HTTP representation.
func FromSpeech(sp *speech.Speech) *SpeechResponse {
	return &SpeechResponse{
		ID:        sp.ID.String(),
		Title:     sp.Title,
		Role:      sp.Role,
		Tone:      sp.Tone,
		Tags:      sp.Tags,
		Content:   sp.Content,
		Anonymous: sp.OwnedByAnon(),
		CreatedAt: sp.CreatedAt,
		UpdatedAt: sp.UpdatedAt,
	}
}

// ListSpeechesResponse is the HTTP response for GET /speeches.
type ListSpeechesResponse struct {
	Speeches []*SpeechResponse `json:"speeches"`
}

// FromSpeeches converts a list of domain speeches.
func FromSpeeches(speeches []*speech.Speech) *ListSpeechesResponse {
	out := &ListSpeechesResponse{Speeches: make([]*SpeechResponse, 0, len(speeches))}
	for _, sp := range speeches {
		out.Speeches = append(out.Speeches, FromSpeech(sp))
	}
	return out
}
