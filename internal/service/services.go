package service

import (
	"github.com/akaretnikov/welltrack/internal/config"
	"github.com/akaretnikov/welltrack/internal/logger"
	"github.com/akaretnikov/welltrack/internal/notify"
	"github.com/akaretnikov/welltrack/internal/store"
	"github.com/akaretnikov/welltrack/internal/validators"
)

type Services struct {
	Auth         AuthService
	Entries      EntryService
	Settings     SettingsService
	Export       ExportService
	RetentionJob RetentionJob
}

func NewServices(storages *store.Storages, hub *notify.Hub, cfg config.App, log *logger.Logger) *Services {
	entryValidator := validators.NewEntryValidator()
	credentialsValidator := validators.NewCredentialsValidator()

	authSvc := NewAuthService(storages.Accounts, storages.Sessions, credentialsValidator, hub, cfg.TokenSignKey, cfg.TokenIssuer, cfg.SessionTTL, log)
	entrySvc := NewEntryService(storages.Entries, storages.Settings, storages.Sessions, entryValidator, hub, log)
	settingsSvc := NewSettingsService(storages.Settings, storages.Sessions, hub, log)
	exportSvc := NewExportService(entrySvc, storages.Entries, storages.Sessions, hub, log)

	return &Services{
		Auth:         authSvc,
		Entries:      entrySvc,
		Settings:     settingsSvc,
		Export:       exportSvc,
		RetentionJob: NewRetentionJob(entrySvc, log),
	}
}
