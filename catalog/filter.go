// Package catalog turns listing parameters into a filtered, sorted game query.
// The HTML pages and the JSON API both go through Apply.
package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	SortName    = "name"
	SortRating  = "rating"
	SortPlayers = "players"

	WhitelistedYes = "yes"
	WhitelistedNo  = "no"
)

// Filter is the parsed form of ?search=&genre=&platform=&store=&whitelisted=&sort=.
// The raw values are kept so templates can echo them back.
type Filter struct {
	Search      string
	Genre       string
	Platform    string
	Store       string
	Whitelisted string
	Sort        string
}

func ParseFilter(q url.Values) Filter {
	return Filter{
		Search:      strings.TrimSpace(q.Get("search")),
		Genre:       q.Get("genre"),
		Platform:    q.Get("platform"),
		Store:       q.Get("store"),
		Whitelisted: q.Get("whitelisted"),
		Sort:        q.Get("sort"),
	}
}

// GenreID returns the genre filter, if it is a valid id.
func (f Filter) GenreID() (uint, bool) { return parseID(f.Genre) }

func (f Filter) PlatformID() (uint, bool) { return parseID(f.Platform) }

func (f Filter) StoreID() (uint, bool) { return parseID(f.Store) }

func parseID(s string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// FormatID renders an id the way filter parameters carry it.
func FormatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Apply adds the filter's conditions and ordering to tx, which must be a
// query on the games table. viewerID is 0 for anonymous requests.
//
// Games lacking the relation used for sorting (no review for "rating", no
// online status for "players") always come after those that have it. Ties,
// and the unsorted listing, fall back to id order.
func Apply(tx *gorm.DB, f Filter, viewerID uint) *gorm.DB {
	tx = tx.Select("games.*")

	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		tx = tx.Where(`LOWER(games.game_name) LIKE ? ESCAPE '\'`, pattern)
	}
	if id, ok := f.GenreID(); ok {
		tx = tx.Where("games.genre_id = ?", id)
	}
	if id, ok := f.PlatformID(); ok {
		tx = tx.Where("games.platform_id = ?", id)
	}
	if id, ok := f.StoreID(); ok {
		tx = tx.Where("games.store_id = ?", id)
	}

	switch f.Whitelisted {
	case WhitelistedYes:
		if viewerID == 0 {
			tx = tx.Where("1 = 0")
		} else {
			tx = tx.Where("games.id IN (?)", whitelistedIDs(tx, viewerID))
		}
	case WhitelistedNo:
		if viewerID != 0 {
			tx = tx.Where("games.id NOT IN (?)", whitelistedIDs(tx, viewerID))
		}
	}

	switch f.Sort {
	case SortName:
		tx = tx.Order("LOWER(games.game_name) ASC").Order("games.id ASC")
	case SortRating:
		tx = tx.Joins("LEFT JOIN reviews ON reviews.id = games.review_id").
			Order("CASE WHEN reviews.rating IS NULL THEN 1 ELSE 0 END").
			Order("reviews.rating DESC").
			Order("games.id ASC")
	case SortPlayers:
		tx = tx.Joins("LEFT JOIN online_statuses ON online_statuses.id = games.online_status_id").
			Order("CASE WHEN online_statuses.active_players IS NULL THEN 1 ELSE 0 END").
			Order("online_statuses.active_players DESC").
			Order("games.id ASC")
	default:
		tx = tx.Order("games.id ASC")
	}
	return tx
}

func whitelistedIDs(tx *gorm.DB, viewerID uint) *gorm.DB {
	return tx.Session(&gorm.Session{NewDB: true}).
		Table("user_whitelisted_games").
		Select("game_id").
		Where("user_id = ?", viewerID)
}
