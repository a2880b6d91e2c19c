package main

import (
	"flag"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/vitotech/contact-admin/internal/api"
	"github.com/vitotech/contact-admin/internal/app"
	"github.com/vitotech/contact-admin/internal/auth"
	"github.com/vitotech/contact-admin/internal/model"
	"github.com/vitotech/contact-admin/internal/notification"
	"github.com/vitotech/contact-admin/internal/session"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String(
		"config", model.DefaultConfigPath(), "path to the config file",
	)
	contactMode := flag.Bool(
		"contact", false,
		"open the public contact form only (no login required)",
	)
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	sess := session.NewKeyringStore()
	client := api.NewClient(cfg.API.BaseURL, sess)
	authService := auth.NewService(client, sess)
	notifService := notification.NewService(client)

	mode := app.StartAdmin
	if *contactMode {
		mode = app.StartContact
	}

	root := app.New(authService, notifService, app.Options{
		Mode:        mode,
		LatestCount: cfg.Display.LatestCount,
	})

	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("running program: %v", err)
	}
}
