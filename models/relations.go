package models

// Payload keys of the Game references. They double as the form field names
// used by the HTML forms and the API.
const (
	FieldGenre              = "genre"
	FieldPlatform           = "platform"
	FieldStore              = "store"
	FieldSize               = "size"
	FieldDeveloper          = "developer"
	FieldPublisher          = "publisher"
	FieldDLC                = "dlc"
	FieldGameMode           = "game_mode"
	FieldLicense            = "license"
	FieldSystemRequirements = "system_requirements"
	FieldReview             = "review"
	FieldMultimedia         = "multimedia"
	FieldStatus             = "status"
	FieldSalesHistory       = "sales_history"
	FieldGameLog            = "game_log"
	FieldRating             = "rating"
	FieldOnlineStatus       = "online_status"
	FieldAward              = "award"
	FieldLanguage           = "language"
)

const (
	OnDeleteCascade = "CASCADE"
	OnDeleteSetNull = "SET NULL"
)

// Relation describes one Game foreign key and what happens to the game when
// the referenced row is deleted.
type Relation struct {
	Field    string
	Column   string
	Table    string
	Required bool
	OnDelete string
}

var Relations = []Relation{
	{FieldGenre, "genre_id", "genres", true, OnDeleteCascade},
	{FieldPlatform, "platform_id", "platforms", true, OnDeleteCascade},
	{FieldStore, "store_id", "stores", true, OnDeleteCascade},
	{FieldSize, "size_id", "sizes", false, OnDeleteSetNull},
	{FieldDeveloper, "developer_id", "developers", false, OnDeleteSetNull},
	{FieldPublisher, "publisher_id", "publishers", false, OnDeleteSetNull},
	{FieldDLC, "dlc_id", "dlcs", false, OnDeleteSetNull},
	{FieldGameMode, "game_mode_id", "game_modes", false, OnDeleteSetNull},
	{FieldLicense, "license_id", "licenses", false, OnDeleteSetNull},
	{FieldSystemRequirements, "system_requirements_id", "system_requirements", false, OnDeleteSetNull},
	{FieldReview, "review_id", "reviews", false, OnDeleteSetNull},
	{FieldMultimedia, "multimedia_id", "multimedia", false, OnDeleteSetNull},
	{FieldStatus, "status_id", "statuses", false, OnDeleteSetNull},
	{FieldSalesHistory, "sales_history_id", "sales_histories", false, OnDeleteSetNull},
	{FieldGameLog, "game_log_id", "game_logs", false, OnDeleteSetNull},
	{FieldRating, "rating_id", "ratings", false, OnDeleteSetNull},
	{FieldOnlineStatus, "online_status_id", "online_statuses", false, OnDeleteSetNull},
	{FieldAward, "award_id", "awards", false, OnDeleteSetNull},
	{FieldLanguage, "language_id", "languages", false, OnDeleteSetNull},
}

// RelationByField looks up a relation by its payload key.
func RelationByField(field string) (Relation, bool) {
	for _, r := range Relations {
		if r.Field == field {
			return r, true
		}
	}
	return Relation{}, false
}

// RelationByTable looks up the relation pointing at table.
func RelationByTable(table string) (Relation, bool) {
	for _, r := range Relations {
		if r.Table == table {
			return r, true
		}
	}
	return Relation{}, false
}

// AllModels lists every entity in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&Genre{}, &Platform{}, &Store{}, &Size{}, &Developer{}, &Publisher{},
		&DLC{}, &GameMode{}, &License{}, &SystemRequirement{}, &Review{},
		&Multimedia{}, &Status{}, &SalesHistory{}, &GameLog{}, &Rating{},
		&OnlineStatus{}, &Award{}, &Language{}, &Game{}, &User{},
	}
}
