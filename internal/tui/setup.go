package tui

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/theirongolddev/spendview/internal/config"
	"github.com/theirongolddev/spendview/internal/summary"
	"github.com/theirongolddev/spendview/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the answers collected by the setup form.
type SetupValues struct {
	ServerURL     string
	SessionCookie string
	Days          int
	Theme         string
}

// SetupValuesFrom seeds the form with the current configuration.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		ServerURL:     cfg.General.ServerURL,
		SessionCookie: cfg.Server.SessionCookie,
		Days:          cfg.General.DefaultDays,
		Theme:         cfg.Appearance.Theme,
	}
}

// Apply copies the answers into cfg.
func (v SetupValues) Apply(cfg *config.Config) {
	cfg.General.ServerURL = strings.TrimRight(strings.TrimSpace(v.ServerURL), "/")
	cfg.Server.SessionCookie = strings.TrimSpace(v.SessionCookie)
	if v.Days > 0 {
		cfg.General.DefaultDays = v.Days
	}
	if v.Theme != "" {
		cfg.Appearance.Theme = v.Theme
	}
}

var daysOptions = []struct {
	label string
	value int
}{
	{"7 days", 7},
	{"30 days", 30},
	{"90 days", 90},
}

// NewSetupForm builds the first-run form writing into v.
func NewSetupForm(v *SetupValues) *huh.Form {
	days := make([]huh.Option[int], 0, len(daysOptions))
	for _, o := range daysOptions {
		days = append(days, huh.NewOption(o.label, o.value))
	}
	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themes = append(themes, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to spendview").
				Description("Charts your spending from an expense server's /api/summary endpoint."),
			huh.NewInput().
				Title("Expense server URL").
				Placeholder("http://localhost:5000").
				Value(&v.ServerURL).
				Validate(validateServerURL),
			huh.NewInput().
				Title("Session cookie").
				Description("Only needed if the server requires a login, e.g. session=...").
				EchoMode(huh.EchoModePassword).
				Value(&v.SessionCookie),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Default time range").
				Options(days...).
				Value(&v.Days),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&v.Theme),
		),
	)
}

func validateServerURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("a server URL is required")
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("URL must start with http:// or https://")
	}
	if u.Host == "" {
		return errors.New("URL has no host")
	}
	return nil
}

// saveSetupConfig persists the form answers and applies them to the running
// app, pointing the renderer at the chosen server.
func (a *App) saveSetupConfig() error {
	cfg, _ := config.Load()
	a.setupVals.Apply(&cfg)
	theme.SetActive(cfg.Appearance.Theme)
	a.days = cfg.General.DefaultDays

	var opts []summary.Option
	if cookie := config.GetSessionCookie(cfg); cookie != "" {
		opts = append(opts, summary.WithSessionCookie(cookie))
	}
	client, err := summary.NewClient(config.GetServerURL(cfg), opts...)
	if err != nil {
		return err
	}
	a.renderer.SetFetcher(client)
	return config.Save(cfg)
}
