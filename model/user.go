package model

import "time"

/*
User is an account that owns songs and playlists and takes part in the follow
graph.

Id: primary key, auto increment
Username: unique display handle
Email: unique, used to log in
Password: bcrypt hash, never serialized
Fullname, Bio, Avatar: optional profile fields, Avatar is an object storage URL
Verified: whether the email is verified
LastLogin: time of the most recent successful login
*/
type User struct {
	Id        uint       `json:"id" gorm:"primaryKey"`
	Username  string     `json:"username" gorm:"uniqueIndex;not null"`
	Email     string     `json:"email" gorm:"uniqueIndex;not null"`
	Password  string     `json:"-" gorm:"not null"`
	Fullname  *string    `json:"fullname"`
	Bio       *string    `json:"bio"`
	Avatar    *string    `json:"avatar"`
	Verified  bool       `json:"verified" gorm:"default:false"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// UserPatch carries a partial profile update, nil fields are left untouched.
type UserPatch struct {
	Fullname  *string
	Bio       *string
	Avatar    *string
	LastLogin *time.Time
}

func (p UserPatch) Apply(u *User) {
	if p.Fullname != nil {
		u.Fullname = p.Fullname
	}
	if p.Bio != nil {
		u.Bio = p.Bio
	}
	if p.Avatar != nil {
		u.Avatar = p.Avatar
	}
	if p.LastLogin != nil {
		u.LastLogin = p.LastLogin
	}
}

func (p UserPatch) IsEmpty() bool {
	return p.Fullname == nil && p.Bio == nil && p.Avatar == nil && p.LastLogin == nil
}
