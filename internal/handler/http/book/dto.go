// Package book exposes the character and summary extraction endpoint.
package book

import "book-insight/internal/domain/entity"

// ExtractRequest is the body of POST /extract_information.
// A missing book_text is treated the same as an empty one.
type ExtractRequest struct {
	BookText string `json:"book_text"`
}

// OccurrenceDTO is one span of a character name, in character offsets.
type OccurrenceDTO struct {
	TokenIDStart int `json:"token_id_start"`
	TokenIDEnd   int `json:"token_id_end"`
}

// CharacterDTO is a person and every place it was found.
type CharacterDTO struct {
	Name        string          `json:"name"`
	Occurrences []OccurrenceDTO `json:"occurrences"`
}

// ExtractResponse is the 200 body of POST /extract_information.
type ExtractResponse struct {
	Summary    string         `json:"summary"`
	Characters []CharacterDTO `json:"characters"`
}

// NewExtractResponse converts an extraction into its wire form.
// Characters is always a JSON array, never null.
func NewExtractResponse(x *entity.Extraction) ExtractResponse {
	resp := ExtractResponse{
		Summary:    x.Summary,
		Characters: make([]CharacterDTO, 0, len(x.Characters)),
	}
	for _, c := range x.Characters {
		occ := make([]OccurrenceDTO, 0, len(c.Occurrences))
		for _, o := range c.Occurrences {
			occ = append(occ, OccurrenceDTO{TokenIDStart: o.Start, TokenIDEnd: o.End})
		}
		resp.Characters = append(resp.Characters, CharacterDTO{Name: c.Name, Occurrences: occ})
	}
	return resp
}
