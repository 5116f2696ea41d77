package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/leaflist/leaflist-server/internal/api"
	"github.com/leaflist/leaflist-server/internal/config"
	"github.com/leaflist/leaflist-server/internal/email"
	"github.com/leaflist/leaflist-server/internal/logger"
	"github.com/leaflist/leaflist-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	authService := do.MustInvoke[*service.AuthService](i)
	bookService := do.MustInvoke[*service.BookService](i)
	bookListService := do.MustInvoke[*service.BookListService](i)
	reviewService := do.MustInvoke[*service.ReviewService](i)
	adminService := do.MustInvoke[*service.AdminService](i)
	emailService := do.MustInvoke[*email.Service](i)

	services := &api.Services{
		Auth:      authService,
		Books:     bookService,
		BookLists: bookListService,
		Reviews:   reviewService,
		Admin:     adminService,
		Email:     emailService,
	}

	handler := api.NewServer(storeHandle.Store, services, cfg.Server.CORSOrigins, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr, "docs", cfg.App.BaseURL+"/api/docs")

	return &HTTPServerHandle{Server: srv}, nil
}
