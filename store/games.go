package store

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gamesite/catalog"
	"gamesite/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const gameNameMaxLen = 30

// GamePatch carries the fields of a create or update request.
//
// Name is nil when the request did not mention it. In Refs a missing key
// leaves the reference untouched, a nil value clears it and anything else
// points it at the given row. Keys are the models.Field* names.
type GamePatch struct {
	Name *string
	Refs map[string]*uint
}

// Set records a reference value.
func (p *GamePatch) Set(field string, id *uint) {
	if p.Refs == nil {
		p.Refs = make(map[string]*uint)
	}
	p.Refs[field] = id
}

type GameStore struct {
	db *gorm.DB
}

func NewGameStore(db *gorm.DB) *GameStore {
	return &GameStore{db: db}
}

// Get loads one game with every reference resolved.
func (s *GameStore) Get(ctx context.Context, id uint) (*models.Game, error) {
	var game models.Game
	err := s.db.WithContext(ctx).Preload(clause.Associations).First(&game, id).Error
	if err != nil {
		return nil, translate(err, "game")
	}
	return &game, nil
}

// List runs the catalog query. viewerID is 0 for anonymous requests.
func (s *GameStore) List(ctx context.Context, f catalog.Filter, viewerID uint) ([]models.Game, error) {
	var games []models.Game
	q := catalog.Apply(s.db.WithContext(ctx).Model(&models.Game{}), f, viewerID)
	if err := q.Preload(clause.Associations).Find(&games).Error; err != nil {
		return nil, translate(err, "games")
	}
	return games, nil
}

func (s *GameStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Game{}).Count(&n).Error
	return n, translate(err, "games")
}

// Create inserts a game. Name and the genre, platform and store references
// are mandatory; every referenced row must exist.
func (s *GameStore) Create(ctx context.Context, p GamePatch) (*models.Game, error) {
	if p.Name == nil {
		return nil, invalid("game_name", "This field is required.")
	}
	for _, rel := range models.Relations {
		if !rel.Required {
			continue
		}
		if id, ok := p.Refs[rel.Field]; !ok || id == nil {
			return nil, invalid(rel.Field, "This field is required.")
		}
	}

	game := models.Game{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkPatch(tx, p); err != nil {
			return err
		}
		game.GameName = strings.TrimSpace(*p.Name)
		for field, id := range p.Refs {
			setRef(&game, field, id)
		}
		return tx.Omit(clause.Associations).Create(&game).Error
	})
	if err != nil {
		return nil, translateTx(err, "game")
	}
	return s.Get(ctx, game.ID)
}

// Update applies a patch. Required references may be changed but not cleared.
func (s *GameStore) Update(ctx context.Context, id uint, p GamePatch) (*models.Game, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Game
		if err := tx.Select("id").First(&existing, id).Error; err != nil {
			return translate(err, "game")
		}
		if err := checkPatch(tx, p); err != nil {
			return err
		}

		updates := make(map[string]interface{}, len(p.Refs)+1)
		if p.Name != nil {
			updates["game_name"] = strings.TrimSpace(*p.Name)
		}
		for field, ref := range p.Refs {
			rel, _ := models.RelationByField(field)
			if ref == nil {
				if rel.Required {
					return invalid(field, "This field may not be null.")
				}
				updates[rel.Column] = nil
				continue
			}
			updates[rel.Column] = *ref
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&models.Game{ID: id}).Omit(clause.Associations).Updates(updates).Error
	})
	if err != nil {
		return nil, translateTx(err, "game")
	}
	return s.Get(ctx, id)
}

// Delete removes a game together with its whitelist memberships and returns
// the deleted game's name.
func (s *GameStore) Delete(ctx context.Context, id uint) (string, error) {
	var name string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var game models.Game
		if err := tx.Select("id", "game_name").First(&game, id).Error; err != nil {
			return translate(err, "game")
		}
		name = game.GameName
		if err := tx.Exec("DELETE FROM user_whitelisted_games WHERE game_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Game{}, id).Error
	})
	if err != nil {
		return "", translateTx(err, "game")
	}
	return name, nil
}

// checkPatch validates the name and makes sure every referenced row exists.
func checkPatch(tx *gorm.DB, p GamePatch) error {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return invalid("game_name", "This field may not be blank.")
		}
		if utf8.RuneCountInString(name) > gameNameMaxLen {
			return invalid("game_name", "Ensure this field has no more than %d characters.", gameNameMaxLen)
		}
	}
	for field, ref := range p.Refs {
		rel, ok := models.RelationByField(field)
		if !ok {
			return invalid(field, "Unknown field.")
		}
		if ref == nil {
			continue
		}
		var n int64
		if err := tx.Table(rel.Table).Where("id = ?", *ref).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return invalid(field, "Invalid pk \"%d\" - object does not exist.", *ref)
		}
	}
	return nil
}

// translateTx keeps errors that already carry a store kind and translates the rest.
func translateTx(err error, what string) error {
	var verr *ValidationError
	if errors.As(err, &verr) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicate) {
		return err
	}
	return translate(err, what)
}

func setRef(g *models.Game, field string, id *uint) {
	var v uint
	if id != nil {
		v = *id
	}
	switch field {
	case models.FieldGenre:
		g.GenreID = v
	case models.FieldPlatform:
		g.PlatformID = v
	case models.FieldStore:
		g.StoreID = v
	case models.FieldSize:
		g.SizeID = id
	case models.FieldDeveloper:
		g.DeveloperID = id
	case models.FieldPublisher:
		g.PublisherID = id
	case models.FieldDLC:
		g.DLCID = id
	case models.FieldGameMode:
		g.GameModeID = id
	case models.FieldLicense:
		g.LicenseID = id
	case models.FieldSystemRequirements:
		g.SystemRequirementsID = id
	case models.FieldReview:
		g.ReviewID = id
	case models.FieldMultimedia:
		g.MultimediaID = id
	case models.FieldStatus:
		g.StatusID = id
	case models.FieldSalesHistory:
		g.SalesHistoryID = id
	case models.FieldGameLog:
		g.GameLogID = id
	case models.FieldRating:
		g.RatingID = id
	case models.FieldOnlineStatus:
		g.OnlineStatusID = id
	case models.FieldAward:
		g.AwardID = id
	case models.FieldLanguage:
		g.LanguageID = id
	}
}

// AverageRating averages the review rating over games that have a review.
// It is 0 when no game has one.
func (s *GameStore) AverageRating(ctx context.Context) (float64, error) {
	var avg struct{ Avg *float64 }
	err := s.db.WithContext(ctx).
		Model(&models.Game{}).
		Select("AVG(reviews.rating) AS avg").
		Joins("JOIN reviews ON reviews.id = games.review_id").
		Scan(&avg).Error
	if err != nil {
		return 0, translate(err, "games")
	}
	if avg.Avg == nil {
		return 0, nil
	}
	return *avg.Avg, nil
}
