package events

// UserSnapshot viaja por las colas AUTH_NOTIFICATION.*.
type UserSnapshot struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
}
