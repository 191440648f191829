// Package app boots the dashboard service: it opens the record store,
// seeds the initial administrator, and serves HTTP.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/minn2020/minndash/internal/auth"
	"github.com/minn2020/minndash/internal/config"
	"github.com/minn2020/minndash/internal/db"
	"github.com/minn2020/minndash/internal/http/api"
	"github.com/minn2020/minndash/internal/identity"
	"github.com/minn2020/minndash/internal/minerals"
	"github.com/minn2020/minndash/internal/models"
	"github.com/minn2020/minndash/internal/store"
)

// Seed identity for the first administrator, matching the deployment docs.
const (
	seedAdminEmail    = "admin@example.com"
	seedAdminPassword = "Admin@1234"
)

// OpenStore selects the persistence backend: a DSN selects the relational
// store, otherwise the JSON file store is rooted at the data directory.
func OpenStore(cfg config.Config) (store.Store, error) {
	if dsn := strings.TrimSpace(cfg.DatabaseDSN); dsn != "" {
		conn, err := db.Open(dsn)
		if err != nil {
			return nil, err
		}
		if errMigrate := db.Migrate(conn); errMigrate != nil {
			return nil, errMigrate
		}
		log.WithField("dialect", db.DialectName(conn)).Info("record store: database backend")
		return store.NewGormStore(conn), nil
	}
	log.WithField("dir", cfg.DataDir).Info("record store: json file backend")
	return store.NewFileStore(cfg.DataDir)
}

// NewGuard builds the account guard from the configuration surface.
func NewGuard(st store.Store, cfg config.Config) *auth.Guard {
	return auth.NewGuard(st, identity.New(cfg.UserIDPrefix), cfg.MaxFailedLogins, cfg.LockoutDuration())
}

// SeedInitialAdmin creates the default administrator when no account holds
// that role yet.
func SeedInitialAdmin(guard *auth.Guard) error {
	users, err := guard.Users()
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Role == models.RoleAdministrator {
			return nil
		}
	}

	admin, err := guard.CreateUser("System", "Admin", seedAdminEmail, "SouthAfrica", "MINN", models.RoleAdministrator, seedAdminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.WithFields(log.Fields{
		"username": admin.Username,
		"email":    seedAdminEmail,
	}).Info("created default admin user")
	return nil
}

// NewRouter assembles the gin engine with all routes registered.
func NewRouter(guard *auth.Guard, loader *minerals.Loader, cfg config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	api.RegisterRoutes(r, guard, loader, cfg)
	return r
}

// RunServer boots the service and blocks until the context is canceled or
// the listener fails.
func RunServer(ctx context.Context, cfg config.Config, port int) error {
	st, err := OpenStore(cfg)
	if err != nil {
		return err
	}
	guard := NewGuard(st, cfg)
	if errSeed := SeedInitialAdmin(guard); errSeed != nil {
		return errSeed
	}

	router := NewRouter(guard, minerals.NewLoader(cfg.DataDir), cfg)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.WithField("port", port).Info("server listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if errShutdown := srv.Shutdown(shutdownCtx); errShutdown != nil {
			return errShutdown
		}
		return nil
	case errServe := <-errCh:
		if errors.Is(errServe, http.ErrServerClosed) {
			return nil
		}
		return errServe
	}
}
