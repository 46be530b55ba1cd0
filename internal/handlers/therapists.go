package handlers

import (
	"net/http"
)

// TherapistView is a directory entry localized for the requested language.
type TherapistView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	City      string `json:"city"`
	Avatar    string `json:"avatar"`
}

type TherapistsResponse struct {
	Success    bool            `json:"success"`
	Therapists []TherapistView `json:"therapists"`
}

// GetTherapists returns the therapist directory, optionally filtered by
// a case-insensitive city substring (?city=).
func GetTherapists(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(r); !ok {
		writeUnauthorized(w)
		return
	}
	lang := langFrom(r)

	out := []TherapistView{}
	for _, t := range appStore.Therapists(r.URL.Query().Get("city")) {
		out = append(out, TherapistView{
			ID:        t.ID,
			Name:      t.Name,
			Specialty: t.Specialty.In(lang),
			City:      t.City,
			Avatar:    t.Avatar,
		})
	}

	writeJSON(w, http.StatusOK, TherapistsResponse{Success: true, Therapists: out})
}
