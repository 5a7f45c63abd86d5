// Package domain contains core concepts of the chat system.
// This file defines User entities and the friend-request invariants.
// No runtime, network, or UI logic should be added here.
package domain

// User is a registered account. Friends is symmetric: a appears in b.Friends
// iff b appears in a.Friends. PendingRequests holds only requests addressed
// to this user, at most one per sender.
type User struct {
	ID              string          `json:"id"`
	Username        string          `json:"username"`
	Avatar          string          `json:"avatar"`
	Status          string          `json:"status"`
	GameActivity    string          `json:"gameActivity,omitempty"`
	Friends         []string        `json:"friends"`
	PendingRequests []FriendRequest `json:"friendRequests"`
}

// FriendRequest is a pending request addressed to To. Accepted and rejected
// requests are removed, not retained, so Status is always "pending" at rest.
type FriendRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Status string `json:"status"`
}

// PublicProfile is the view of a user exposed to other users.
type PublicProfile struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Avatar       string `json:"avatar"`
	Status       string `json:"status"`
	GameActivity string `json:"gameActivity,omitempty"`
	IsOnline     bool   `json:"isOnline,omitempty"`
}

func (u User) Profile() PublicProfile {
	return PublicProfile{
		ID:           u.ID,
		Username:     u.Username,
		Avatar:       u.Avatar,
		Status:       u.Status,
		GameActivity: u.GameActivity,
	}
}

// HasFriend reports whether id is already in the friend set.
func (u User) HasFriend(id string) bool {
	for _, f := range u.Friends {
		if f == id {
			return true
		}
	}
	return false
}

// PendingFrom returns the index of the pending request sent by from, or -1.
func (u User) PendingFrom(from string) int {
	for i, r := range u.PendingRequests {
		if r.From == from {
			return i
		}
	}
	return -1
}

// ProfilePatch is a partial profile update. Presence is carried by pointers:
// a nil field is untouched, a pointer to "" explicitly clears the field.
type ProfilePatch struct {
	Avatar       *string `json:"avatar"`
	Status       *string `json:"status"`
	GameActivity *string `json:"gameActivity"`
}
