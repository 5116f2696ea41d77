package providers

import (
	"github.com/samber/do/v2"

	"github.com/leaflist/leaflist-server/internal/config"
	"github.com/leaflist/leaflist-server/internal/email"
	"github.com/leaflist/leaflist-server/internal/logger"
)

// ProvideEmailService provides the outgoing mail service.
func ProvideEmailService(i do.Injector) (*email.Service, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.MailEnabled() {
		log.Warn("SMTP not configured, verification links will only be logged")
	}

	return email.NewService(cfg.SMTP, log.Logger), nil
}
