package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/task2sms/tui/internal/api"
	"github.com/task2sms/tui/internal/app"
	"github.com/task2sms/tui/internal/model"
	"github.com/task2sms/tui/internal/session"
	"github.com/task2sms/tui/internal/store"
	"github.com/task2sms/tui/internal/theme"
)

func main() {
	configPath := model.DefaultConfigPath()
	if env := os.Getenv("TASK2SMS_CONFIG"); env != "" {
		configPath = env
	}

	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	theme.Apply(theme.Mode(cfg.Display.Theme))

	cachePath := cfg.Display.CachePath
	if cachePath == "" {
		cachePath = model.DefaultCachePath()
	}
	cache, err := store.NewSQLiteStore(cachePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open cache: %v\n", err)
		os.Exit(1)
	}
	defer cache.Close()

	// The session owns the token; the client reads it per request and
	// reports rejections back so the session can expire itself. The
	// closures capture sess before it is assigned, which is safe because
	// no request fires until the program starts.
	var sess *session.Store
	client := api.NewClient(
		cfg.Server.BaseURL,
		time.Duration(cfg.Server.TimeoutSec)*time.Second,
		func() string { return sess.Token() },
		func() { sess.HandleUnauthorized() },
	)
	sess = session.New(client, session.KeyringTokens{})

	root := app.New(client, sess, cache, configPath, cfg)

	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "task2sms: %v\n", err)
		os.Exit(1)
	}
}
