// The admin console for the Milky file search server. It connects to a
// running server and drives the upload/list/delete lifecycle and the
// question flow from an interactive prompt.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/simkoong/filesearch-milky/internal/console"
	"github.com/simkoong/filesearch-milky/internal/logging"
)

func main() {
	serverAddr := flag.String("server", envOr("MILKY_SERVER_ADDR", "http://localhost:8090"), "server base URL")
	token := flag.String("token", os.Getenv("MILKY_ADMIN_TOKEN"), "admin access token")
	promptToken := flag.Bool("prompt-token", false, "prompt for the access token instead of passing it on the command line")
	flag.Parse()

	cfg := &console.Config{
		ServerAddr: *serverAddr,
		Token:      *token,
	}

	if *promptToken {
		t, err := console.GetToken(os.Stdout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not read token: %v\n", err)
			os.Exit(1)
		}
		cfg.Token = t
	}

	app := console.NewApp(cfg, os.Stdin, os.Stdout, logging.NewDefault())
	app.Run(context.Background())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
