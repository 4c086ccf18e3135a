package domain

const (
	RequesterIDCtxKey   = "gm-requesterId"
	RequesterRoleCtxKey = "gm-requesterRole"
)

// SessionCookieName is the cookie holding the signed session token.
const SessionCookieName = "session"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	}
	return false
}

// Label returns the display name for a role. The switch is exhaustive over
// the closed enum so a new role is a compile-visible change here.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleUser:
		return "Member"
	default:
		return string(r)
	}
}

type IntentionStatus string

const (
	IntentionPending  IntentionStatus = "pending"
	IntentionApproved IntentionStatus = "approved"
	IntentionRejected IntentionStatus = "rejected"
)

func (s IntentionStatus) Valid() bool {
	switch s {
	case IntentionPending, IntentionApproved, IntentionRejected:
		return true
	}
	return false
}

func (s IntentionStatus) Label() string {
	switch s {
	case IntentionPending:
		return "Pending"
	case IntentionApproved:
		return "Approved"
	case IntentionRejected:
		return "Rejected"
	default:
		return string(s)
	}
}

// Terminal reports whether the review workflow treats the status as final.
func (s IntentionStatus) Terminal() bool {
	switch s {
	case IntentionApproved, IntentionRejected:
		return true
	}
	return false
}
