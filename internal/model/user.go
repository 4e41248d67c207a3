package model

import "strings"

// User is the locally simulated account. It is stored wholesale and is
// absent while signed out.
type User struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Avatar        string `json:"avatar,omitempty"`
	Bio           string `json:"bio,omitempty"`
	Notifications *bool  `json:"notifications,omitempty"`
	Theme         string `json:"theme,omitempty"`
}

// Initials returns the upper-cased first letter of each name part, or "U"
// when the name is empty.
func (u User) Initials() string {
	parts := strings.Fields(u.Name)
	if len(parts) == 0 {
		return "U"
	}
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strings.ToUpper(string([]rune(p)[0])))
	}
	return b.String()
}

// NotificationsEnabled defaults to true when the preference was never set.
func (u User) NotificationsEnabled() bool {
	return u.Notifications == nil || *u.Notifications
}
