package console

import (
	"bufio"
	"context"
	"io"

	"github.com/simkoong/filesearch-milky/internal/apiclient"
	"github.com/simkoong/filesearch-milky/internal/logging"
)

// Config holds the connection settings for the admin console.
type Config struct {
	ServerAddr string
	Token      string
}

// App wires the API client, registry view, and mutation controller behind
// the REPL.
type App struct {
	view       *RegistryView
	controller *Controller
	scanner    *bufio.Scanner
}

func NewApp(cfg *Config, in io.Reader, out io.Writer, log logging.Logger) *App {
	client := apiclient.New(cfg.ServerAddr, cfg.Token)
	scanner := bufio.NewScanner(in)
	view := NewRegistryView(client, out)

	confirm := func(prompt string) bool {
		return Confirm(scanner, prompt, out)
	}
	controller := NewController(client, view, out, confirm, log)

	return &App{view: view, controller: controller, scanner: scanner}
}

// Run shows the registry once and then hands control to the REPL. It
// returns when the user exits or input reaches EOF.
func (a *App) Run(ctx context.Context) {
	a.view.Refresh(ctx)
	runREPL(ctx, a.controller, a.scanner)
}
