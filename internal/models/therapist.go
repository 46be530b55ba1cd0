package models

// Therapist is a directory entry. The directory is seeded at startup;
// therapists never sign in or mutate state.
type Therapist struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Specialty LocalizedText `json:"specialty"`
	City      string        `json:"city"`
	Avatar    string        `json:"avatar"`
}
