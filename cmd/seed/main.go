package main

import (
	"context"
	"log"
	"time"

	"github.com/citydesk/announce-api/internal/dto"
	"github.com/citydesk/announce-api/internal/repository"
	"github.com/citydesk/announce-api/internal/service"
	"github.com/citydesk/announce-api/pkg/config"
	"github.com/citydesk/announce-api/pkg/database"
	"github.com/citydesk/announce-api/pkg/logger"
)

type seedAnnouncement struct {
	title           string
	content         string
	publicationDate time.Time
	categories      []string
}

var seedCategories = []service.CreateCategoryRequest{
	{Name: "CITY", DisplayName: "City"},
	{Name: "COMMUNITY_EVENTS", DisplayName: "Community Events"},
	{Name: "CRIME_SAFETY", DisplayName: "Crime & Safety"},
	{Name: "CULTURE", DisplayName: "Culture"},
	{Name: "DISCOUNTS_BENEFITS", DisplayName: "Discounts & Benefits"},
	{Name: "EMERGENCIES", DisplayName: "Emergencies"},
	{Name: "FOR_SENIORS", DisplayName: "For Seniors"},
	{Name: "HEALTH", DisplayName: "Health"},
	{Name: "KIDS_FAMILY", DisplayName: "Kids & Family"},
}

var seedAnnouncements = []seedAnnouncement{
	{
		title:           "Urban Marathon 2026",
		content:         "Join the annual city marathon starting from the main square. Registration is now open!",
		publicationDate: time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC),
		categories:      []string{"CITY", "COMMUNITY_EVENTS"},
	},
	{
		title:           "Free Health Checkups",
		content:         "Local clinics are offering free health screenings for seniors this weekend.",
		publicationDate: time.Date(2026, 2, 10, 10, 30, 0, 0, time.UTC),
		categories:      []string{"HEALTH", "FOR_SENIORS"},
	},
	{
		title:           "New Public Library Hours",
		content:         "The central library will now stay open until 10 PM on weekdays.",
		publicationDate: time.Date(2026, 2, 15, 9, 0, 0, 0, time.UTC),
		categories:      []string{"CULTURE", "KIDS_FAMILY"},
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	validate := service.NewValidator()
	categorySvc := service.NewCategoryService(repository.NewCategoryRepository(db), nil, 0, validate, logr)
	announcementSvc := service.NewAnnouncementService(repository.NewAnnouncementRepository(db), validate, logr)

	ctx := context.Background()
	sugar := logr.Sugar()

	sugar.Infow("seeding categories")
	idsByName := make(map[string]int64, len(seedCategories))
	for _, req := range seedCategories {
		category, err := categorySvc.Upsert(ctx, req)
		if err != nil {
			sugar.Fatalw("failed to seed category", "name", req.Name, "error", err)
		}
		idsByName[category.Name] = category.ID
		sugar.Infow("seeded category", "name", category.Name, "id", category.ID)
	}

	sugar.Infow("seeding announcements")
	for _, a := range seedAnnouncements {
		ids := make([]int64, 0, len(a.categories))
		for _, name := range a.categories {
			ids = append(ids, idsByName[name])
		}
		created, err := announcementSvc.Create(ctx, service.CreateAnnouncementRequest{
			Title:           a.title,
			Content:         a.content,
			PublicationDate: &dto.FlexTime{Time: a.publicationDate},
			Categories:      ids,
		})
		if err != nil {
			sugar.Fatalw("failed to seed announcement", "title", a.title, "error", err)
		}
		sugar.Infow("seeded announcement", "title", created.Title, "id", created.ID)
	}

	sugar.Infow("seeding finished")
}
