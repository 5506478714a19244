package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/tomz197/arena/internal/config"
	"github.com/tomz197/arena/internal/loop/client"
	"github.com/tomz197/arena/internal/loop/server"
	"github.com/tomz197/arena/internal/storage"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load settings: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the game, so logs go to stderr only when it
	// is redirected.
	var logOut io.Writer = io.Discard
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		logOut = os.Stderr
	}
	logger := settings.NewLogger(logOut, "arena")
	for _, w := range settings.Warnings {
		logger.Warn(w)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	store := storage.NewAsyncStore(storage.NewFileStore(settings.HighScorePath), logger)
	defer store.Close()

	srv := server.NewServer(server.Options{
		Tick:   settings.TickInterval(),
		Store:  store,
		Logger: logger,
		Seed:   settings.Seed,
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Run(ctx)

	c := client.NewClient(srv, bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{})
	runErr := c.Run()
	cancel()
	<-srv.Done()

	if runErr != nil {
		store.Close()
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", runErr)
		os.Exit(1)
	}
}
