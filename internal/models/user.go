package models

import "time"

// User is the signed-in operator as reported by /api/auth/me.
type User struct {
	ID       string `json:"_id"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

// DisplayName prefers the full name over the login.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

// Profile is the editable operator profile served by /api/profile.
type Profile struct {
	ID           string     `json:"_id,omitempty"`
	Username     string     `json:"username" validate:"required"`
	Email        string     `json:"email" validate:"omitempty,email"`
	Phone        string     `json:"phone,omitempty"`
	Bio          string     `json:"bio,omitempty"`
	Role         string     `json:"role,omitempty"`
	ProfileImage string     `json:"profileImage,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
}

// PasswordChange is the password form of the profile view.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}
