package db

import (
	"context"
	"fmt"

	"gamesite/models"
	"gamesite/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seed inserts a small demo catalog. It does nothing when genres already exist.
func Seed(ctx context.Context, conn *gorm.DB) error {
	var n int64
	if err := conn.WithContext(ctx).Model(&models.Genre{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		utils.LogInfo("Catalog already seeded", map[string]interface{}{"genres": n})
		return nil
	}

	return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		genres := []models.Genre{
			{GenreID: 1, GenreName: "RPG", GenrePopularity: "High"},
			{GenreID: 2, GenreName: "Shooter", GenrePopularity: "High"},
			{GenreID: 3, GenreName: "Strategy", GenrePopularity: "Medium"},
		}
		platforms := []models.Platform{
			{PlatformID: 1, PlatformName: "PC"},
			{PlatformID: 2, PlatformName: "PlayStation 5"},
		}
		stores := []models.Store{
			{StoreID: 1, StoreName: "Steam"},
			{StoreID: 2, StoreName: "PlayStation Store"},
		}
		developer := models.Developer{DeveloperID: 1, FirstName: "Ada", LastName: "Lovelace", Country: "UK"}
		publisher := models.Publisher{PublisherID: 1, PublisherName: "Analytical Games", Country: "UK"}
		dlc := models.DLC{DLCID: 1, DLCName: "Frontier Expansion", DLCPrice: decimal.RequireFromString("14.99")}
		review := models.Review{ReviewID: 1, Rating: 9, Text: "A classic."}
		online := models.OnlineStatus{ActivePlayers: 1200, RegisteredPlayers: 50000}
		award := models.Award{AwardID: 1, AwardName: "Game of the Year"}
		language := models.Language{LanguageID: 1, LanguageName: "English"}
		sysreq := models.SystemRequirement{RequirementID: 1, OperatingSystem: "Windows 10", Processor: "i5", RAM: "8 GB", GPU: "GTX 1060"}
		sales := models.SalesHistory{UnitsSold: 250000}

		for _, v := range []interface{}{&genres, &platforms, &stores, &developer, &publisher, &dlc,
			&review, &online, &award, &language, &sysreq, &sales} {
			if err := tx.Create(v).Error; err != nil {
				return fmt.Errorf("failed to seed %T: %w", v, err)
			}
		}

		games := []models.Game{
			{
				GameName:             "Starfall Saga",
				GenreID:              genres[0].ID,
				PlatformID:           platforms[0].ID,
				StoreID:              stores[0].ID,
				DeveloperID:          &developer.ID,
				PublisherID:          &publisher.ID,
				DLCID:                &dlc.ID,
				ReviewID:             &review.ID,
				OnlineStatusID:       &online.ID,
				AwardID:              &award.ID,
				LanguageID:           &language.ID,
				SystemRequirementsID: &sysreq.ID,
				SalesHistoryID:       &sales.ID,
			},
			{GameName: "Orbit", GenreID: genres[1].ID, PlatformID: platforms[1].ID, StoreID: stores[1].ID},
			{GameName: "Kingdoms", GenreID: genres[2].ID, PlatformID: platforms[0].ID, StoreID: stores[0].ID},
		}
		if err := tx.Omit(clause.Associations).Create(&games).Error; err != nil {
			return fmt.Errorf("failed to seed games: %w", err)
		}
		utils.LogInfo("Demo catalog seeded", map[string]interface{}{"games": len(games)})
		return nil
	})
}
