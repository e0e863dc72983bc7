package main

import (
	"log"

	"project-collab-api/internal/config"
	"project-collab-api/internal/database"
	"project-collab-api/internal/handlers"
	"project-collab-api/internal/notify"
	"project-collab-api/internal/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	// Init database
	database.InitDB(cfg.DBPath)

	// Without an SMTP host every mail is logged rather than sent
	if cfg.SMTPHost != "" {
		notify.SetMailer(notify.NewSMTPMailer(
			cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom,
		))
	}
	handlers.Configure(cfg.BaseURL)

	// Setup the routes (public and protected routes)
	ginRoutes := routes.SetupRoutes()

	log.Printf("Server starting on port %s", cfg.Port)
	if err := ginRoutes.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
