package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"yatube/backend/comment"
	"yatube/backend/config"
	"yatube/backend/follower"
	"yatube/backend/group"
	"yatube/backend/handlers"
	"yatube/backend/post"
	"yatube/backend/user"
	"yatube/backend/view"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the database and start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, err := open(rootOpts, true)
			if err != nil {
				return err
			}
			defer conn.Close()

			srv, err := NewServer(cfg, conn)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return listen(ctx, ":"+cfg.Port, srv.Handler())
		},
	}
}

// NewServer builds the request handlers on top of conn.
func NewServer(cfg config.Config, conn *sqlx.DB) (*handlers.Server, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating upload dir %s", cfg.UploadDir)
	}

	views, err := loadTemplates(cfg.TemplatesDir)
	if err != nil {
		return nil, err
	}

	posts := post.NewService(conn, post.NewUploader(cfg.UploadDir))
	return &handlers.Server{
		Users:     user.NewService(conn),
		Tokens:    user.NewTokens(cfg.JWTSecret),
		Groups:    group.NewStore(conn),
		Posts:     posts,
		Comments:  comment.NewStore(conn),
		Follows:   follower.NewService(conn, posts),
		Views:     views,
		UploadDir: cfg.UploadDir,
	}, nil
}

// loadTemplates prefers templates on disk when dir is set, so they can be
// edited without rebuilding.
func loadTemplates(dir string) (*view.Templates, error) {
	if dir == "" {
		return view.Embedded()
	}
	t, err := view.Load(os.DirFS(dir))
	if err != nil {
		return nil, errors.Wrapf(err, "loading templates from %s", dir)
	}
	return t, nil
}

func listen(ctx context.Context, addr string, h http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] Running on %s", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("[Server] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down server")
	}
	return nil
}
