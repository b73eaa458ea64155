package models

import "net/url"

type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate rejects missing credentials before any provider call.
func (c Credentials) Validate() error {
	if c.Email == "" {
		return &ValidationError{Field: "email", Message: "email is required"}
	}
	if c.Password == "" {
		return &ValidationError{Field: "password", Message: "password is required"}
	}
	return nil
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r Registration) Validate() error {
	if r.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	return Credentials{Email: r.Email, Password: r.Password}.Validate()
}

// Public returns a copy without the access token, for API responses.
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.AccessToken = ""
	return &c
}

// AvatarURL returns a generated initials avatar for name.
func AvatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.PathEscape(name)
}
