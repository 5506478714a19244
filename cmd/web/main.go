package main

import (
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os"

	"github.com/tomz197/arena/internal/config"
	"github.com/tomz197/arena/internal/storage"
)

//go:embed index.html
var htmlPage string

var page = template.Must(template.New("index").Parse(htmlPage))

type pageData struct {
	SSHHost   string
	SSHPort   string
	HighScore int
}

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load settings: %v\n", err)
		os.Exit(1)
	}
	logger := settings.NewLogger(os.Stderr, "web")
	store := storage.NewFileStore(settings.HighScorePath)

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		score, err := store.Load()
		if err != nil {
			logger.Warn("failed to read high score", "err", err)
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		data := pageData{
			SSHHost:   settings.Web.DisplayHost,
			SSHPort:   settings.SSH.Port,
			HighScore: score,
		}
		if err := page.Execute(w, data); err != nil {
			logger.Error("failed to render page", "err", err)
		}
	})

	addr := net.JoinHostPort(settings.Web.Host, settings.Web.Port)
	logger.Info("Starting web server", "addr", "http://"+addr)
	if err := http.ListenAndServe(addr, nil); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", "err", err)
	}
}
