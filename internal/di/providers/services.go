package providers

import (
	"github.com/samber/do/v2"

	"github.com/leaflist/leaflist-server/internal/auth"
	"github.com/leaflist/leaflist-server/internal/config"
	"github.com/leaflist/leaflist-server/internal/dto"
	"github.com/leaflist/leaflist-server/internal/email"
	"github.com/leaflist/leaflist-server/internal/logger"
	"github.com/leaflist/leaflist-server/internal/service"
	"github.com/leaflist/leaflist-server/internal/validation"
)

// ProvideValidator provides the request payload validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideEnricher provides the DTO enricher that resolves document references.
func ProvideEnricher(i do.Injector) (*dto.Enricher, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	return dto.NewEnricher(storeHandle.Store), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	emailService := do.MustInvoke[*email.Service](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(
		storeHandle.Store,
		tokenService,
		emailService,
		validator,
		log.Logger,
		cfg.App.BaseURL,
	), nil
}

// ProvideBookListService provides the booklist service.
func ProvideBookListService(i do.Injector) (*service.BookListService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	enricher := do.MustInvoke[*dto.Enricher](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookListService(storeHandle.Store, enricher, validator, log.Logger), nil
}

// ProvideBookService provides the book catalog service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	listService := do.MustInvoke[*service.BookListService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(storeHandle.Store, listService, validator, log.Logger), nil
}

// ProvideReviewService provides the review service.
func ProvideReviewService(i do.Injector) (*service.ReviewService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	enricher := do.MustInvoke[*dto.Enricher](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReviewService(storeHandle.Store, enricher, validator, log.Logger), nil
}

// ProvideAdminService provides the admin service.
func ProvideAdminService(i do.Injector) (*service.AdminService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	enricher := do.MustInvoke[*dto.Enricher](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAdminService(storeHandle.Store, enricher, validator, log.Logger), nil
}
