package models

import "fmt"

type Review struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	ReviewID int    `gorm:"column:review_id" json:"review_id"`
	Rating   int    `gorm:"not null" json:"rating" validate:"gte=0"`
	Text     string `gorm:"type:text" json:"text"`
}

func (Review) TableName() string { return "reviews" }
func (r Review) String() string  { return fmt.Sprintf("Rating: %d", r.Rating) }

// Rating is the age/content rating (PEGI, ESRB, ...), not the review score.
type Rating struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	RatingID   int    `gorm:"column:rating_id" json:"rating_id"`
	RatingName string `gorm:"size:30" json:"rating_name" validate:"required,max=30"`
}

func (Rating) TableName() string { return "ratings" }
func (r Rating) String() string  { return r.RatingName }

type OnlineStatus struct {
	ID                uint `gorm:"primaryKey" json:"id"`
	ActivePlayers     int  `gorm:"not null" json:"active_players" validate:"gte=0"`
	RegisteredPlayers int  `gorm:"not null" json:"registered_players" validate:"gte=0"`
}

func (OnlineStatus) TableName() string { return "online_statuses" }
func (o OnlineStatus) String() string {
	return fmt.Sprintf("Active: %d, Registered: %d", o.ActivePlayers, o.RegisteredPlayers)
}

type SalesHistory struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	UnitsSold int  `gorm:"not null" json:"units_sold" validate:"gte=0"`
}

func (SalesHistory) TableName() string { return "sales_histories" }
func (s SalesHistory) String() string  { return fmt.Sprintf("Sold: %d", s.UnitsSold) }

type GameLog struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	LogID          int    `gorm:"column:log_id" json:"log_id"`
	LogDescription string `gorm:"type:text" json:"log_description"`
}

func (GameLog) TableName() string { return "game_logs" }
func (l GameLog) String() string  { return fmt.Sprintf("Log %d", l.LogID) }

type Award struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	AwardID   int    `gorm:"column:award_id" json:"award_id"`
	AwardName string `gorm:"size:50" json:"award_name" validate:"required,max=50"`
}

func (Award) TableName() string { return "awards" }
func (a Award) String() string  { return a.AwardName }
