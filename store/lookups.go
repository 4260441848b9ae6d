package store

import (
	"context"
	"encoding/json"
	"fmt"

	"gamesite/models"
	"gamesite/utils"

	"gorm.io/gorm"
)

// Record is a lookup row together with its display name.
type Record struct {
	ID    uint          `json:"id"`
	Name  string        `json:"name"`
	Value models.Entity `json:"-"`
}

// DeleteResult reports what removing a lookup row did to the games using it.
type DeleteResult struct {
	Name         string `json:"name"`
	GamesDeleted int64  `json:"games_deleted"`
	GamesCleared int64  `json:"games_cleared"`
}

// Kind knows how to read and write one lookup table. Kinds are addressed by
// table name ("genres", "game_modes", ...).
type Kind struct {
	Name     string
	Relation models.Relation

	newValue func() models.Entity
	find     func(tx *gorm.DB) ([]models.Entity, error)
}

func kind[T any, P interface {
	*T
	models.Entity
}](table string) Kind {
	rel, ok := models.RelationByTable(table)
	if !ok {
		panic("store: no relation for table " + table)
	}
	return Kind{
		Name:     table,
		Relation: rel,
		newValue: func() models.Entity { return P(new(T)) },
		find: func(tx *gorm.DB) ([]models.Entity, error) {
			var rows []T
			if err := tx.Order("id").Find(&rows).Error; err != nil {
				return nil, err
			}
			out := make([]models.Entity, len(rows))
			for i := range rows {
				out[i] = P(&rows[i])
			}
			return out, nil
		},
	}
}

var kinds = []Kind{
	kind[models.Genre]("genres"),
	kind[models.Platform]("platforms"),
	kind[models.Store]("stores"),
	kind[models.Size]("sizes"),
	kind[models.Developer]("developers"),
	kind[models.Publisher]("publishers"),
	kind[models.DLC]("dlcs"),
	kind[models.GameMode]("game_modes"),
	kind[models.License]("licenses"),
	kind[models.SystemRequirement]("system_requirements"),
	kind[models.Review]("reviews"),
	kind[models.Multimedia]("multimedia"),
	kind[models.Status]("statuses"),
	kind[models.SalesHistory]("sales_histories"),
	kind[models.GameLog]("game_logs"),
	kind[models.Rating]("ratings"),
	kind[models.OnlineStatus]("online_statuses"),
	kind[models.Award]("awards"),
	kind[models.Language]("languages"),
}

// Kinds lists every lookup kind in relation order.
func Kinds() []Kind { return kinds }

// KindByName resolves a table name.
func KindByName(name string) (Kind, bool) {
	for _, k := range kinds {
		if k.Name == name {
			return k, true
		}
	}
	return Kind{}, false
}

// KindByField resolves a Game payload key ("genre", "game_mode", ...).
func KindByField(field string) (Kind, bool) {
	for _, k := range kinds {
		if k.Relation.Field == field {
			return k, true
		}
	}
	return Kind{}, false
}

type LookupStore struct {
	db *gorm.DB
}

func NewLookupStore(db *gorm.DB) *LookupStore {
	return &LookupStore{db: db}
}

func toRecord(e models.Entity) Record {
	return Record{ID: e.GetID(), Name: e.String(), Value: e}
}

func (s *LookupStore) List(ctx context.Context, k Kind) ([]Record, error) {
	rows, err := k.find(s.db.WithContext(ctx))
	if err != nil {
		return nil, translate(err, k.Name)
	}
	out := make([]Record, len(rows))
	for i, row := range rows {
		out[i] = toRecord(row)
	}
	return out, nil
}

// Options returns every lookup list keyed by Game payload key, as needed by
// the add and update forms.
func (s *LookupStore) Options(ctx context.Context) (map[string][]Record, error) {
	out := make(map[string][]Record, len(kinds))
	for _, k := range kinds {
		recs, err := s.List(ctx, k)
		if err != nil {
			return nil, err
		}
		out[k.Relation.Field] = recs
	}
	return out, nil
}

func (s *LookupStore) Get(ctx context.Context, k Kind, id uint) (Record, error) {
	v := k.newValue()
	if err := s.db.WithContext(ctx).First(v, id).Error; err != nil {
		return Record{}, translate(err, k.Name)
	}
	return toRecord(v), nil
}

func (s *LookupStore) Count(ctx context.Context, k Kind) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Table(k.Name).Count(&n).Error
	return n, translate(err, k.Name)
}

// Create decodes a JSON object into a new row of kind k.
func (s *LookupStore) Create(ctx context.Context, k Kind, body []byte) (Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return Record{}, invalid("non_field_errors", "Invalid JSON: %s", err.Error())
	}
	// The id always comes from the database.
	delete(fields, "id")
	clean, _ := json.Marshal(fields)

	v := k.newValue()
	if err := json.Unmarshal(clean, v); err != nil {
		return Record{}, invalid("non_field_errors", "Invalid JSON: %s", err.Error())
	}
	if err := utils.ValidateStruct(v); err != nil {
		return Record{}, fromValidator(err)
	}
	if err := s.db.WithContext(ctx).Create(v).Error; err != nil {
		return Record{}, translate(err, k.Name)
	}
	return toRecord(v), nil
}

// Delete removes a lookup row. Games pointing at a genre, platform or store
// are deleted with it; any other reference is set to NULL.
func (s *LookupStore) Delete(ctx context.Context, k Kind, id uint) (DeleteResult, error) {
	var res DeleteResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v := k.newValue()
		if err := tx.First(v, id).Error; err != nil {
			return translate(err, k.Name)
		}
		res.Name = v.String()

		column := fmt.Sprintf("%s = ?", k.Relation.Column)
		switch k.Relation.OnDelete {
		case models.OnDeleteCascade:
			owned := tx.Session(&gorm.Session{NewDB: true}).
				Model(&models.Game{}).Select("id").Where(column, id)
			if err := tx.Exec("DELETE FROM user_whitelisted_games WHERE game_id IN (?)", owned).Error; err != nil {
				return err
			}
			del := tx.Where(column, id).Delete(&models.Game{})
			if del.Error != nil {
				return del.Error
			}
			res.GamesDeleted = del.RowsAffected
		default:
			upd := tx.Model(&models.Game{}).Where(column, id).Update(k.Relation.Column, nil)
			if upd.Error != nil {
				return upd.Error
			}
			res.GamesCleared = upd.RowsAffected
		}
		return tx.Delete(v).Error
	})
	if err != nil {
		return DeleteResult{}, translateTx(err, k.Name)
	}
	return res, nil
}
