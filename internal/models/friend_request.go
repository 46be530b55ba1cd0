package models

// FriendRequestStatus is the lifecycle state of a friend request.
type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestDeclined FriendRequestStatus = "declined"
)

// FriendRequest relates two users. At most one open (pending or
// accepted) request may exist per unordered pair; a declined request
// no longer blocks a new one.
type FriendRequest struct {
	FromUserID string              `json:"from_user_id"`
	ToUserID   string              `json:"to_user_id"`
	Status     FriendRequestStatus `json:"status"`
}

// Relates reports whether the request connects the two users in either direction.
func (fr *FriendRequest) Relates(a, b string) bool {
	return (fr.FromUserID == a && fr.ToUserID == b) ||
		(fr.FromUserID == b && fr.ToUserID == a)
}

// Open reports whether the request still blocks a new one for its pair.
func (fr *FriendRequest) Open() bool {
	return fr.Status == FriendRequestPending || fr.Status == FriendRequestAccepted
}
