// Package bootstrap wires repositories, services and handlers into one set so
// the server command and the HTTP tests assemble the stack the same way.
package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/AgnesMuita/asset-maintenance-api/internal/health"
	"github.com/AgnesMuita/asset-maintenance-api/internal/http/handler"
	"github.com/AgnesMuita/asset-maintenance-api/internal/http/router"
	"github.com/AgnesMuita/asset-maintenance-api/internal/maintenance"
	"github.com/AgnesMuita/asset-maintenance-api/internal/repository"
	"github.com/AgnesMuita/asset-maintenance-api/internal/security"
	"github.com/AgnesMuita/asset-maintenance-api/internal/service"
)

type Options struct {
	Issuer        string
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Pepper        string
	MarkerTTL     time.Duration
	Retention     time.Duration
	SweepInterval time.Duration
	MarkerStore   service.ViewMarkerStore
	Logger        *slog.Logger
}

type Set struct {
	Accounts      repository.AccountRepository
	Tokens        repository.TokenRepository
	Cases         repository.CaseRepository
	Assets        repository.AssetRepository
	Articles      repository.ArticleRepository
	Announcements repository.AnnouncementRepository
	Documents     repository.DocumentRepository

	JWTManager *security.JWTManager
	Auth       *service.AuthService
	Sweeper    *maintenance.Sweeper
	Readiness  *health.ProbeRunner
	Logger     *slog.Logger

	authHandler         *handler.AuthHandler
	accountHandler      *handler.AccountHandler
	caseHandler         *handler.CaseHandler
	assetHandler        *handler.AssetHandler
	articleHandler      *handler.ArticleHandler
	announcementHandler *handler.AnnouncementHandler
	documentHandler     *handler.DocumentHandler
	trashHandler        *handler.TrashHandler
}

type purgeFunc func(cutoff time.Time) (int64, error)

func (f purgeFunc) PurgeDeletedBefore(cutoff time.Time) (int64, error) { return f(cutoff) }

func Build(db *gorm.DB, opts Options) (*Set, error) {
	if err := repository.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	markers := opts.MarkerStore
	if markers == nil {
		markers = service.NewInMemoryViewMarkerStore()
	}

	s := &Set{
		Accounts:      repository.NewAccountRepository(db),
		Tokens:        repository.NewTokenRepository(db),
		Cases:         repository.NewCaseRepository(db),
		Assets:        repository.NewAssetRepository(db),
		Articles:      repository.NewArticleRepository(db),
		Announcements: repository.NewAnnouncementRepository(db),
		Documents:     repository.NewDocumentRepository(db),
		Logger:        logger,
	}

	issuer := opts.Issuer
	if issuer == "" {
		issuer = "asset-maintenance-api"
	}
	s.JWTManager = security.NewJWTManager(issuer, opts.AccessSecret, opts.RefreshSecret, opts.AccessTTL, opts.RefreshTTL)
	s.Auth = service.NewAuthService(s.Accounts, s.Tokens, s.JWTManager, opts.Pepper)
	articles := service.NewArticleService(s.Articles, markers, opts.MarkerTTL)
	cases := service.NewCaseService(s.Cases)

	s.Sweeper = maintenance.NewSweeper(opts.Retention, opts.SweepInterval, logger)
	s.Sweeper.Register("accounts", purgeFunc(s.Accounts.PurgeDeletedBefore))
	s.Sweeper.Register("cases", purgeFunc(s.Cases.PurgeDeletedBefore))
	s.Sweeper.Register("assets", purgeFunc(s.Assets.PurgeDeletedBefore))
	s.Sweeper.Register("articles", purgeFunc(s.Articles.PurgeDeletedBefore))
	s.Sweeper.Register("announcements", purgeFunc(s.Announcements.PurgeDeletedBefore))
	s.Sweeper.Register("documents", purgeFunc(s.Documents.PurgeDeletedBefore))
	s.Sweeper.Register("sessions", purgeFunc(s.Tokens.PurgeRevokedBefore))

	s.Readiness = health.NewProbeRunner(5*time.Second, 2*time.Second)

	s.authHandler = handler.NewAuthHandler(s.Auth)
	s.accountHandler = handler.NewAccountHandler(s.Accounts)
	s.caseHandler = handler.NewCaseHandler(cases)
	s.assetHandler = handler.NewAssetHandler(s.Assets)
	s.articleHandler = handler.NewArticleHandler(articles, s.Articles)
	s.announcementHandler = handler.NewAnnouncementHandler(s.Announcements)
	s.documentHandler = handler.NewDocumentHandler(s.Documents)

	s.trashHandler = handler.NewTrashHandler(s.Sweeper)
	handler.RegisterBin(s.trashHandler, "accounts", s.Accounts.ListDeleted, s.Accounts.Restore)
	handler.RegisterBin(s.trashHandler, "cases", s.Cases.ListDeleted, s.Cases.Restore)
	handler.RegisterBin(s.trashHandler, "assets", s.Assets.ListDeleted, s.Assets.Restore)
	handler.RegisterBin(s.trashHandler, "articles", s.Articles.ListDeleted, s.Articles.Restore)
	handler.RegisterBin(s.trashHandler, "announcements", s.Announcements.ListDeleted, s.Announcements.Restore)
	handler.RegisterBin(s.trashHandler, "documents", s.Documents.ListDeleted, s.Documents.Restore)

	return s, nil
}

// RouterDependencies returns the wired handler set; rate limits, CORS and the
// OTel toggle stay with the caller.
func (s *Set) RouterDependencies() router.Dependencies {
	return router.Dependencies{
		AuthHandler:         s.authHandler,
		AccountHandler:      s.accountHandler,
		CaseHandler:         s.caseHandler,
		AssetHandler:        s.assetHandler,
		ArticleHandler:      s.articleHandler,
		AnnouncementHandler: s.announcementHandler,
		DocumentHandler:     s.documentHandler,
		TrashHandler:        s.trashHandler,
		JWTManager:          s.JWTManager,
		Logger:              s.Logger,
		Readiness:           s.Readiness,
	}
}
