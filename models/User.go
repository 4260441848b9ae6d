package models

import "time"

const (
	UserTypeGamer = "gamer"
	UserTypeDev   = "dev"
)

// User is the site account. Whitelisted games are kept in the
// user_whitelisted_games join table (user_id, game_id).
type User struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Username         string     `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Password         string     `gorm:"size:128;not null" json:"-"`
	UserType         string     `gorm:"size:5;not null;default:dev" json:"user_type"`
	IsStaff          bool       `gorm:"default:false" json:"is_staff"`
	IsActive         bool       `gorm:"default:true" json:"is_active"`
	DateJoined       time.Time  `gorm:"autoCreateTime" json:"date_joined"`
	LastLogin        *time.Time `json:"last_login"`
	WhitelistedGames []Game     `gorm:"many2many:user_whitelisted_games;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string { return "users" }

// RegisterInput is the signup form: username, password1, password2, user_type.
type RegisterInput struct {
	Username  string `form:"username" json:"username" validate:"required,max=150,username"`
	Password1 string `form:"password1" json:"password1" validate:"required"`
	Password2 string `form:"password2" json:"password2" validate:"required"`
	UserType  string `form:"user_type" json:"user_type" validate:"required,oneof=gamer dev"`
}

// LoginInput - credentials posted to the login endpoint
type LoginInput struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}
