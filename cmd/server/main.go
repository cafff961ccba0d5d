package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-identity-server/accounts/repofake"
	"github.com/jrsteele09/go-identity-server/auth"
	"github.com/jrsteele09/go-identity-server/identity/repofake"
	"github.com/jrsteele09/go-identity-server/internal/config"
	"github.com/jrsteele09/go-identity-server/server"
	"github.com/jrsteele09/go-identity-server/settings/repofake"
	"github.com/jrsteele09/go-identity-server/store/mongostore"
	"github.com/jrsteele09/go-identity-server/token"
	tokenrepofake "github.com/jrsteele09/go-identity-server/token/repofake"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	repos, rememberMeRepo, apiKeyRepo, err := buildRepos(c)
	if err != nil {
		return fmt.Errorf("buildRepos: %w", err)
	}

	handler, err := server.New(c, repos, rememberMeRepo, apiKeyRepo)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

// buildRepos wires Mongo-backed repositories when MONGO_URI is set and
// in-memory ones otherwise.
func buildRepos(c config.Config) (auth.Repos, token.RememberMeRepo, token.APIKeyRepo, error) {
	if uri := c.GetMongoURI(); uri != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			return auth.Repos{}, nil, nil, fmt.Errorf("mongo.Connect: %w", err)
		}
		store, err := mongostore.New(ctx, client, c.GetMongoDBName())
		if err != nil {
			return auth.Repos{}, nil, nil, fmt.Errorf("mongostore.New: %w", err)
		}
		repos := auth.Repos{
			Accounts: store.Accounts(),
			Links:    store.Links(),
			Settings: store.Settings(),
		}
		return repos, store.RememberMe(), store.APIKeys(), nil
	}

	repos := auth.Repos{
		Accounts: fakeaccountrepo.NewFakeAccountRepo(),
		Links:    fakelinkrepo.NewFakeLinkRepo(),
		Settings: fakesettingsrepo.NewFakeSettingsRepo(),
	}
	return repos, tokenrepofake.NewFakeRememberMeRepo(), tokenrepofake.NewFakeAPIKeyRepo(), nil
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
