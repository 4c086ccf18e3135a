package domain

import "time"

// User is an authenticated account. Password holds the bcrypt hash and is
// never serialized.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	Company   string    `json:"company"`
	CreatedAt time.Time `json:"createdAt"`
}

// Intention is a membership application submitted by a visitor.
type Intention struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Company    string          `json:"company"`
	Motivation string          `json:"motivation"`
	Status     IntentionStatus `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Invite is a single-use credential granting signup rights for one
// intention. UsedAt is nil until the token is consumed.
type Invite struct {
	ID          string     `json:"id"`
	Token       string     `json:"token"`
	IntentionID string     `json:"intentionId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UsedAt      *time.Time `json:"usedAt"`
}

// Consumed reports whether the invite token has been used.
func (i Invite) Consumed() bool {
	return i.UsedAt != nil
}

// Announcement is a broadcast message, always rendered with its author.
type Announcement struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Author    *User     `json:"author,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
