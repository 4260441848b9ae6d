package models

type Game struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	GameName string `gorm:"size:30;not null" json:"game_name"`

	GenreID    uint     `gorm:"not null;index" json:"genre"`
	Genre      Genre    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	PlatformID uint     `gorm:"not null;index" json:"platform"`
	Platform   Platform `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	StoreID    uint     `gorm:"not null;index" json:"store"`
	Store      Store    `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	SizeID               *uint              `json:"size"`
	Size                 *Size              `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	DeveloperID          *uint              `json:"developer"`
	Developer            *Developer         `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	PublisherID          *uint              `json:"publisher"`
	Publisher            *Publisher         `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	DLCID                *uint              `gorm:"column:dlc_id" json:"dlc"`
	DLC                  *DLC               `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	GameModeID           *uint              `json:"game_mode"`
	GameMode             *GameMode          `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	LicenseID            *uint              `json:"license"`
	License              *License           `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	SystemRequirementsID *uint              `gorm:"column:system_requirements_id" json:"system_requirements"`
	SystemRequirements   *SystemRequirement `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	ReviewID             *uint              `json:"review"`
	Review               *Review            `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	MultimediaID         *uint              `json:"multimedia"`
	Multimedia           *Multimedia        `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	StatusID             *uint              `json:"status"`
	Status               *Status            `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	SalesHistoryID       *uint              `json:"sales_history"`
	SalesHistory         *SalesHistory      `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	GameLogID            *uint              `json:"game_log"`
	GameLog              *GameLog           `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	RatingID             *uint              `json:"rating"`
	Rating               *Rating            `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	OnlineStatusID       *uint              `json:"online_status"`
	OnlineStatus         *OnlineStatus      `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	AwardID              *uint              `json:"award"`
	Award                *Award             `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	LanguageID           *uint              `json:"language"`
	Language             *Language          `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}

func (Game) TableName() string { return "games" }

func (g Game) String() string { return g.GameName }

// RefID returns the id stored in the foreign key column named by field, and
// whether the reference is set. Required references are always set.
func (g Game) RefID(field string) (uint, bool) {
	switch field {
	case FieldGenre:
		return g.GenreID, true
	case FieldPlatform:
		return g.PlatformID, true
	case FieldStore:
		return g.StoreID, true
	}
	p := g.optionalRef(field)
	if p == nil {
		return 0, false
	}
	return *p, true
}

func (g Game) optionalRef(field string) *uint {
	switch field {
	case FieldSize:
		return g.SizeID
	case FieldDeveloper:
		return g.DeveloperID
	case FieldPublisher:
		return g.PublisherID
	case FieldDLC:
		return g.DLCID
	case FieldGameMode:
		return g.GameModeID
	case FieldLicense:
		return g.LicenseID
	case FieldSystemRequirements:
		return g.SystemRequirementsID
	case FieldReview:
		return g.ReviewID
	case FieldMultimedia:
		return g.MultimediaID
	case FieldStatus:
		return g.StatusID
	case FieldSalesHistory:
		return g.SalesHistoryID
	case FieldGameLog:
		return g.GameLogID
	case FieldRating:
		return g.RatingID
	case FieldOnlineStatus:
		return g.OnlineStatusID
	case FieldAward:
		return g.AwardID
	case FieldLanguage:
		return g.LanguageID
	}
	return nil
}
