package cli

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/alexanderramin/being/internal/auth"
	"github.com/alexanderramin/being/internal/db"
	"github.com/alexanderramin/being/internal/devserver"
	"github.com/alexanderramin/being/internal/repository"
)

func newDevserverCmd(app *App) *cobra.Command {
	var addr, dbPath string
	var tokenTTL time.Duration

	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run a local practice API for development",
		Long: `Run a local implementation of the practice API backed by SQLite.
Point the client at it with "being config set-url http://localhost:8080".

Tokens are signed with BEING_DEV_SECRET; without it a random secret is
used and logins do not survive a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))

			if dbPath == "" {
				dbPath = filepath.Join(filepath.Dir(app.Config.DBPath), "devserver.db")
			}
			database, err := db.OpenDB(dbPath, db.ServerSchema)
			if err != nil {
				return err
			}
			defer database.Close()

			secret := os.Getenv("BEING_DEV_SECRET")
			if secret == "" {
				secret, err = randomSecret()
				if err != nil {
					return err
				}
				logger.Warn("BEING_DEV_SECRET not set; using a random token secret")
			}

			clk := app.clock()
			svc := devserver.NewService(
				repository.NewSQLiteUserRepo(database),
				repository.NewSQLitePracticeSessionRepo(database),
				db.NewSQLiteUnitOfWork(database),
				auth.NewIssuer(secret, tokenTTL).WithClock(clk.Now),
				clk,
				bcrypt.DefaultCost,
			)

			l, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", addr, err)
			}
			logger.Info("devserver database", "path", dbPath)
			return devserver.Serve(cmd.Context(), l, devserver.NewRouter(svc), logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default: devserver.db next to the client database)")
	cmd.Flags().DurationVar(&tokenTTL, "token-ttl", 24*time.Hour, "Lifetime of issued tokens")

	return cmd
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating token secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
