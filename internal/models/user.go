package models

import "time"

// User is a member of the community. Users are created when the
// onboarding assessment completes and live for the server's lifetime.
type User struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name   string `json:"name"`
	Bio    string `json:"bio,omitempty"`
	Avatar string `json:"avatar,omitempty"`

	// AssessmentResult is nil for seeded users that never took the assessment.
	AssessmentResult *AssessmentResult `json:"assessment_result,omitempty"`

	// Posts are ordered newest-first.
	Posts []Post `json:"posts"`

	// Friends holds user ids. Treated as a set: acceptance of a friend
	// request never inserts a duplicate.
	Friends []string `json:"friends"`
}

// Post is a feed entry. It lives inside its author's post list but is
// addressable globally by id.
type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	ImageURL  string    `json:"image_url,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	// Likes holds the ids of users who liked the post. Set semantics:
	// toggling flips membership, duplicates never appear.
	Likes []string `json:"likes"`
}

// LikedBy reports whether the given user currently likes the post.
func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
