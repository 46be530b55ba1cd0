package models

// Question is a single assessment question with its answer options.
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// AssessmentResult is produced by the generative collaborator when a
// user submits their answers. It is attached to the user at creation
// time and never changes afterwards.
type AssessmentResult struct {
	PrimaryConcern string `json:"primaryConcern"`
	Summary        string `json:"summary"`

	// RecommendedRoomIDs are drawn from the official room vocabulary
	// (depression, anxiety, trauma, general) regardless of language.
	RecommendedRoomIDs []string `json:"recommendedRoomIds"`
}

// OfficialRoomIDs is the fixed vocabulary the collaborator may recommend.
var OfficialRoomIDs = []string{"depression", "anxiety", "trauma", "general"}
