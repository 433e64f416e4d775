package tracker

import "strings"

// User identifies an account on a backend. Username is the backend-unique
// login where the backend has one; Email and Name are optional detail.
// ID is the backend-assigned identity used for equality where exposed.
type User struct {
	ID       string
	Username string
	Email    string
	Name     string
}

// Equal compares users by backend-assigned id when both carry one,
// falling back to username. Equality is adapter-defined, not inherent:
// two instances with the same username may still be distinct accounts on
// backends that expose ids.
func (u User) Equal(other User) bool {
	if u.ID != "" && other.ID != "" {
		return u.ID == other.ID
	}
	return u.Username != "" && u.Username == other.Username
}

// String renders "Name (username) <email>", omitting absent parts.
func (u User) String() string {
	parts := make([]string, 0, 3)
	if u.Name != "" {
		parts = append(parts, u.Name)
	}
	if u.Username != "" {
		parts = append(parts, "("+u.Username+")")
	}
	if u.Email != "" {
		parts = append(parts, "<"+u.Email+">")
	}
	return strings.Join(parts, " ")
}
