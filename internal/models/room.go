package models

// ChatRoom is a community chat space. Official rooms are seeded at
// startup and immutable; private rooms are created by users.
type ChatRoom struct {
	ID          string        `json:"id"`
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description"`
	Icon        string        `json:"icon"`

	IsPrivate bool     `json:"is_private,omitempty"`
	OwnerID   string   `json:"owner_id,omitempty"`
	Members   []string `json:"members,omitempty"`
}

// HasMember reports whether the user may participate in the room.
// Official rooms are open to everyone.
func (r *ChatRoom) HasMember(userID string) bool {
	if !r.IsPrivate {
		return true
	}
	if r.OwnerID == userID {
		return true
	}
	for _, id := range r.Members {
		if id == userID {
			return true
		}
	}
	return false
}
