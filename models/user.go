package models

import "time"

type User struct {
	ID                   int       `json:"id"`
	Username             string    `json:"username"`
	PasswordHash         string    `json:"-"`
	Theme                string    `json:"theme"`
	Language             string    `json:"language"`
	LocalStorageMigrated bool      `json:"localStorageMigrated"`
	CreatedAt            time.Time `json:"createdAt"`
}
