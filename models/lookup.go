package models

import "fmt"

// Genre, Platform and Store are the hard dependencies of a Game.

type Genre struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	GenreID         int    `gorm:"column:genre_id" json:"genre_id"`
	GenreName       string `gorm:"size:30;not null" json:"genre_name" validate:"required,max=30"`
	GenrePopularity string `gorm:"size:20" json:"genre_popularity" validate:"max=20"`
}

func (Genre) TableName() string { return "genres" }
func (g Genre) String() string  { return g.GenreName }

type Platform struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	PlatformID   int    `gorm:"column:platform_id" json:"platform_id"`
	PlatformName string `gorm:"size:30;not null" json:"platform_name" validate:"required,max=30"`
}

func (Platform) TableName() string { return "platforms" }
func (p Platform) String() string  { return p.PlatformName }

type Store struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	StoreID   int    `gorm:"column:store_id" json:"store_id"`
	StoreName string `gorm:"size:30;not null" json:"store_name" validate:"required,max=30"`
}

func (Store) TableName() string { return "stores" }
func (s Store) String() string  { return s.StoreName }

type Size struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	SizeID   int    `gorm:"column:size_id" json:"size_id"`
	SizeType string `gorm:"size:30" json:"size_type" validate:"required,max=30"`
}

func (Size) TableName() string { return "sizes" }
func (s Size) String() string  { return s.SizeType }

type Developer struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	DeveloperID int    `gorm:"column:developer_id" json:"developer_id"`
	FirstName   string `gorm:"size:30" json:"first_name" validate:"required,max=30"`
	LastName    string `gorm:"size:30" json:"last_name" validate:"max=30"`
	Gender      string `gorm:"size:10" json:"gender" validate:"max=10"`
	Country     string `gorm:"size:30" json:"country" validate:"max=30"`
}

func (Developer) TableName() string { return "developers" }
func (d Developer) String() string  { return fmt.Sprintf("%s %s", d.FirstName, d.LastName) }

type Publisher struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	PublisherID   int    `gorm:"column:publisher_id" json:"publisher_id"`
	PublisherName string `gorm:"size:50" json:"publisher_name" validate:"required,max=50"`
	Country       string `gorm:"size:30" json:"country" validate:"max=30"`
}

func (Publisher) TableName() string { return "publishers" }
func (p Publisher) String() string  { return p.PublisherName }

type Language struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	LanguageID   int    `gorm:"column:language_id" json:"language_id"`
	LanguageName string `gorm:"size:30" json:"language_name" validate:"required,max=30"`
}

func (Language) TableName() string { return "languages" }
func (l Language) String() string  { return l.LanguageName }
