package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type DLC struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	DLCID    int             `gorm:"column:dlc_id" json:"dlc_id"`
	DLCName  string          `gorm:"column:dlc_name;size:50" json:"dlc_name" validate:"required,max=50"`
	DLCPrice decimal.Decimal `gorm:"column:dlc_price;type:decimal(6,2)" json:"dlc_price" validate:"money"`
}

func (DLC) TableName() string { return "dlcs" }
func (d DLC) String() string  { return d.DLCName }

type GameMode struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	ModeID   int    `gorm:"column:mode_id" json:"mode_id"`
	ModeName string `gorm:"size:30" json:"mode_name" validate:"required,max=30"`
}

func (GameMode) TableName() string { return "game_modes" }
func (m GameMode) String() string  { return m.ModeName }

type License struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	LicenseID   int    `gorm:"column:license_id" json:"license_id"`
	LicenseName string `gorm:"size:50" json:"license_name" validate:"required,max=50"`
}

func (License) TableName() string { return "licenses" }
func (l License) String() string  { return l.LicenseName }

type SystemRequirement struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	RequirementID   int    `gorm:"column:requirement_id" json:"requirement_id"`
	OperatingSystem string `gorm:"size:50" json:"operating_system" validate:"max=50"`
	Processor       string `gorm:"size:50" json:"processor" validate:"max=50"`
	RAM             string `gorm:"column:ram;size:20" json:"ram" validate:"max=20"`
	GPU             string `gorm:"column:gpu;size:50" json:"gpu" validate:"max=50"`
}

func (SystemRequirement) TableName() string { return "system_requirements" }
func (s SystemRequirement) String() string {
	return fmt.Sprintf("%s, %s", s.OperatingSystem, s.Processor)
}

type Multimedia struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Website   string `gorm:"size:200" json:"website" validate:"required,max=200,url"`
	StoreLink string `gorm:"size:200" json:"store_link" validate:"omitempty,max=200,url"`
}

func (Multimedia) TableName() string { return "multimedia" }
func (m Multimedia) String() string  { return m.Website }

type Status struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	StatusID   int    `gorm:"column:status_id" json:"status_id"`
	StatusName string `gorm:"size:30" json:"status_name" validate:"required,max=30"`
}

func (Status) TableName() string { return "statuses" }
func (s Status) String() string  { return s.StatusName }
