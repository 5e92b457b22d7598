package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/spokes/internal/bot"
	"github.com/example/spokes/internal/config"
	"github.com/example/spokes/internal/handlers"
	"github.com/example/spokes/internal/middleware"
	"github.com/example/spokes/internal/services"
	"github.com/example/spokes/internal/store"
)

// Register wires up all HTTP routes. A nil db selects the in-memory
// user store.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	graphClient := services.NewGraphClient(cfg.GraphBaseURL, cfg.PageAccessToken)
	geocodeClient := services.NewGeocodeClient(cfg.GeocodeBaseURL, cfg.GoogleAPIKey)
	stationClient := services.NewStationClient(cfg.GBFSBaseURL)

	var userStore store.UserStore
	if db != nil {
		userStore = store.NewGormStore(db, graphClient)
	} else {
		userStore = store.NewMemoryStore(graphClient)
	}

	onboarding := bot.NewOnboarding(userStore, geocodeClient, graphClient)
	router := bot.NewRouter(geocodeClient, graphClient, stationClient)
	webhookHandler := handlers.NewWebhookHandler(cfg.ValidationToken, userStore, onboarding, router)

	app.Get("/webhook", webhookHandler.Verify)
	app.Post("/webhook", middleware.SignatureMiddleware(cfg.AppSecret), webhookHandler.Receive)
}
