// Package serializers shapes games and lookups for JSON responses.
package serializers

import (
	"gamesite/models"
	"gamesite/store"
)

// Placeholders the detail view prints for missing references.
const (
	NoDLC   = "None"
	NoAward = "–"
)

type SystemRequirements struct {
	OS  string `json:"os"`
	CPU string `json:"cpu"`
	RAM string `json:"ram"`
	GPU string `json:"gpu"`
}

// GameDetail is the body of GET /game/:id/json/.
type GameDetail struct {
	ID                 uint               `json:"id"`
	Name               string             `json:"name"`
	Genre              string             `json:"genre"`
	Platform           string             `json:"platform"`
	Store              string             `json:"store"`
	Developer          string             `json:"developer"`
	Publisher          string             `json:"publisher"`
	DLC                string             `json:"dlc"`
	Mode               string             `json:"mode"`
	License            string             `json:"license"`
	SystemRequirements SystemRequirements `json:"system_requirements"`
	Rating             *int               `json:"rating"`
	Players            *int               `json:"players"`
	Award              string             `json:"award"`
	Language           string             `json:"language"`
	Sales              *int               `json:"sales"`
	IsWhitelisted      bool               `json:"is_whitelisted"`
}

// Viewer is the whitelist of the requesting user. A nil Viewer is anonymous
// and has nothing whitelisted.
type Viewer map[uint]bool

func (v Viewer) Has(gameID uint) bool {
	return v != nil && v[gameID]
}

// NewGameDetail expects g to have its references preloaded.
func NewGameDetail(g *models.Game, viewer Viewer) GameDetail {
	d := GameDetail{
		ID:            g.ID,
		Name:          g.GameName,
		Genre:         g.Genre.GenreName,
		Platform:      g.Platform.PlatformName,
		Store:         g.Store.StoreName,
		DLC:           NoDLC,
		Award:         NoAward,
		IsWhitelisted: viewer.Has(g.ID),
	}
	if g.Developer != nil {
		d.Developer = g.Developer.String()
	}
	if g.Publisher != nil {
		d.Publisher = g.Publisher.PublisherName
	}
	if g.DLC != nil {
		d.DLC = g.DLC.DLCName
	}
	if g.GameMode != nil {
		d.Mode = g.GameMode.ModeName
	}
	if g.License != nil {
		d.License = g.License.LicenseName
	}
	if sr := g.SystemRequirements; sr != nil {
		d.SystemRequirements = SystemRequirements{
			OS:  sr.OperatingSystem,
			CPU: sr.Processor,
			RAM: sr.RAM,
			GPU: sr.GPU,
		}
	}
	if g.Review != nil {
		d.Rating = intPtr(g.Review.Rating)
	}
	if g.OnlineStatus != nil {
		d.Players = intPtr(g.OnlineStatus.ActivePlayers)
	}
	if g.Award != nil {
		d.Award = g.Award.AwardName
	}
	if g.Language != nil {
		d.Language = g.Language.LanguageName
	}
	if g.SalesHistory != nil {
		d.Sales = intPtr(g.SalesHistory.UnitsSold)
	}
	return d
}

func intPtr(n int) *int { return &n }

// GameResource is the /api/games/ representation.
type GameResource struct {
	ID            uint   `json:"id"`
	GameName      string `json:"game_name"`
	Genre         uint   `json:"genre"`
	Platform      uint   `json:"platform"`
	Store         uint   `json:"store"`
	GenreName     string `json:"genre_name"`
	PlatformName  string `json:"platform_name"`
	StoreName     string `json:"store_name"`
	IsWhitelisted bool   `json:"is_whitelisted"`
}

func NewGameResource(g *models.Game, viewer Viewer) GameResource {
	return GameResource{
		ID:            g.ID,
		GameName:      g.GameName,
		Genre:         g.GenreID,
		Platform:      g.PlatformID,
		Store:         g.StoreID,
		GenreName:     g.Genre.GenreName,
		PlatformName:  g.Platform.PlatformName,
		StoreName:     g.Store.StoreName,
		IsWhitelisted: viewer.Has(g.ID),
	}
}

func NewGameResources(games []models.Game, viewer Viewer) []GameResource {
	out := make([]GameResource, len(games))
	for i := range games {
		out[i] = NewGameResource(&games[i], viewer)
	}
	return out
}

// Lookup is the {id, name} shape of genres, platforms and stores.
type Lookup struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func NewLookup(r store.Record) Lookup {
	return Lookup{ID: r.ID, Name: r.Name}
}

func NewLookups(recs []store.Record) []Lookup {
	out := make([]Lookup, len(recs))
	for i, r := range recs {
		out[i] = NewLookup(r)
	}
	return out
}
