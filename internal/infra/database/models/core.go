package models

import (
	"time"
)

type User struct {
	ID       string    `json:"id" gorm:"primaryKey;type:text"`
	Name     string    `json:"name" gorm:"type:text;not null"`
	Email    string    `json:"email" gorm:"type:text;not null;index:user_email,unique"`
	Password string    `json:"-" gorm:"type:text;not null"`
	Role     string    `json:"role" gorm:"type:text;not null;default:'user'"`
	Company  string    `json:"company" gorm:"type:text;not null"`
	CDate    time.Time `json:"cdate" gorm:"column:created_at;->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Intention struct {
	ID         string    `json:"id" gorm:"primaryKey;type:text"`
	Name       string    `json:"name" gorm:"type:text;not null"`
	Email      string    `json:"email" gorm:"type:text;not null"`
	Company    string    `json:"company" gorm:"type:text;not null"`
	Motivation string    `json:"motivation" gorm:"type:text;not null"`
	Status     string    `json:"status" gorm:"type:text;not null;default:'pending';index"`
	CDate      time.Time `json:"cdate" gorm:"column:created_at;->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

// Invite carries the unique token constraint that backs the single-use
// guarantee at the storage layer.
type Invite struct {
	ID          string     `json:"id" gorm:"primaryKey;type:text"`
	Token       string     `json:"token" gorm:"type:text;not null;index:invite_token,unique"`
	IntentionID string     `json:"intentionId" gorm:"type:text;not null"`
	Intention   Intention  `json:"-" gorm:"foreignKey:IntentionID;references:ID;constraint:OnDelete:CASCADE;"`
	UsedAt      *time.Time `json:"usedAt" gorm:"type:timestamp with time zone"`
	CDate       time.Time  `json:"cdate" gorm:"column:created_at;->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Announcement struct {
	ID      string    `json:"id" gorm:"primaryKey;type:text"`
	UserID  string    `json:"userId" gorm:"type:text;not null;index"`
	Author  User      `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
	Message string    `json:"message" gorm:"type:text;not null"`
	CDate   time.Time `json:"cdate" gorm:"column:created_at;->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}
