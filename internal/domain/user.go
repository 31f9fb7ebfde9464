package domain

import "time"

// User is the identity record owned by the credential store. The password
// hash never leaves the repository layer through JSON.
type User struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	Phone             string    `json:"phone,omitempty"`
	EmailVerified     bool      `json:"-"`
	TutorialCompleted bool      `json:"-"`
	CreatedAt         time.Time `json:"createdAt"`
}

// PublicUser is the projection of a User that is safe to return to clients.
type PublicUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Public returns the client-facing projection of the user.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// Profile is the extended projection returned by the profile endpoints.
type Profile struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	Phone             string    `json:"phone,omitempty"`
	TutorialCompleted bool      `json:"tutorialCompleted"`
	CreatedAt         time.Time `json:"createdAt"`
}

// ProfileView returns the profile projection of the user.
func (u User) ProfileView() Profile {
	return Profile{
		ID:                u.ID,
		Email:             u.Email,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Phone:             u.Phone,
		TutorialCompleted: u.TutorialCompleted,
		CreatedAt:         u.CreatedAt,
	}
}

// ProfileUpdate carries the mutable profile fields; nil means leave unchanged.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
}
