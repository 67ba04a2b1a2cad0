package models

import (
	"net/url"
	"strings"
)

// User is the signed-in visitor. There is no credential behind it.
type User struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// NewUser builds a user from a caller-supplied email. An empty name falls back
// to the local part of the email.
func NewUser(email, name string) *User {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if name == "" {
		name = email
		if at := strings.Index(email, "@"); at > 0 {
			name = email[:at]
		}
	}
	return &User{
		Name:   name,
		Email:  email,
		Avatar: "https://i.pravatar.cc/48?u=" + url.QueryEscape(email),
	}
}
