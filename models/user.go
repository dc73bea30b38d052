package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User types
const (
	UserTypeGuest  = "guest"
	UserTypeLawyer = "lawyer"
	UserTypeStaff  = "staff"
	UserTypeAdmin  = "admin"
)

type User struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	FullName         string `gorm:"not null" json:"fullName"`
	Email            string `gorm:"uniqueIndex;not null" json:"email"`
	PhoneNumber      string `gorm:"uniqueIndex;not null" json:"phoneNumber"`
	Password         string `gorm:"not null" json:"-"`
	State            string `json:"state,omitempty"`
	District         string `json:"district,omitempty"`
	Address          string `json:"address,omitempty"`
	UserType         string `gorm:"not null;default:guest;index" json:"userType"`
	RegistrationType string `json:"registrationType,omitempty"`
	Specialist       string `json:"specialist,omitempty"` // lawyers only
	Bio              string `gorm:"type:text" json:"bio,omitempty"`

	IsVerified         bool   `gorm:"not null;default:false" json:"isVerified"`
	VerificationToken  string `json:"-"`
	ResetPasswordToken string `json:"-"`
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// IsStaffOrAdmin reports whether the user may curate legal records
func (u *User) IsStaffOrAdmin() bool {
	return u.UserType == UserTypeStaff || u.UserType == UserTypeAdmin
}

// IsAdmin reports whether the user is an administrator
func (u *User) IsAdmin() bool {
	return u.UserType == UserTypeAdmin
}

// IsValidUserType checks if the user type is valid
func IsValidUserType(userType string) bool {
	switch userType {
	case UserTypeGuest, UserTypeLawyer, UserTypeStaff, UserTypeAdmin:
		return true
	}
	return false
}
