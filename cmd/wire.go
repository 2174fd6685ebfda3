package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/bnema/aicms-cli/internal/adapters/gateway"
	articlerender "github.com/bnema/aicms-cli/internal/adapters/render/article"
	"github.com/bnema/aicms-cli/internal/adapters/render/markdown"
	statusrender "github.com/bnema/aicms-cli/internal/adapters/render/status"
	usagerender "github.com/bnema/aicms-cli/internal/adapters/render/usage"
	"github.com/bnema/aicms-cli/internal/adapters/repo/rest"
	chainstore "github.com/bnema/aicms-cli/internal/adapters/session/chain"
	filestore "github.com/bnema/aicms-cli/internal/adapters/session/file"
	passstore "github.com/bnema/aicms-cli/internal/adapters/session/pass"
	"github.com/bnema/aicms-cli/internal/application"
	"github.com/bnema/aicms-cli/internal/config"
	"github.com/bnema/aicms-cli/internal/domain"
	"github.com/bnema/aicms-cli/internal/logging"
	"github.com/bnema/aicms-cli/internal/ports"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"
)

type app struct {
	config         config.Config
	logger         *zap.Logger
	gateway        *gateway.Client
	articleRepo    ports.ArticleRepository
	identity       *application.IdentityResolver
	auth           *application.AuthService
	articles       *application.ArticleService
	usage          *application.UsageService
	articleView    func(application.ArticleSnapshot, articlerender.RenderOptions) (string, error)
	articleList    func([]application.ArticleListItem, articlerender.RenderOptions) (string, error)
	statusRenderer func(application.SessionStatus, statusrender.RenderOptions) (string, error)
	usageRenderer  func([]domain.UsageRecord, usagerender.RenderOptions) (string, error)
	now            func() time.Time
}

func wireApp() (*app, error) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)

	sessions, err := newSessionStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire session store: %w", err)
	}

	client, err := gateway.NewClient(cfg.BaseURL, sessions,
		gateway.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		gateway.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("wire api gateway: %w", err)
	}

	articleRepo := rest.NewArticleRepository(client)
	identity := application.NewIdentityResolver(client, logger)

	return &app{
		config:         cfg,
		logger:         logger,
		gateway:        client,
		articleRepo:    articleRepo,
		identity:       identity,
		auth:           application.NewAuthService(client, sessions, identity),
		articles:       application.NewArticleService(articleRepo, identity),
		usage:          application.NewUsageService(rest.NewUsageRepository(client)),
		articleView:    articlerender.RenderDetail,
		articleList:    articlerender.RenderList,
		statusRenderer: statusrender.Render,
		usageRenderer:  usagerender.Render,
		now:            time.Now,
	}, nil
}

func newSessionStore(cfg config.Config) (ports.SessionStore, error) {
	switch cfg.SessionBackend {
	case config.BackendFile:
		return filestore.NewStore(cfg.SessionDir), nil
	case config.BackendPass:
		return passstore.NewStore(), nil
	default:
		return chainstore.NewPassFirstWithFileFallback(cfg.SessionDir)
	}
}

// newDispatcher builds the per-view dispatcher. Each command owns its own,
// mirroring one dispatcher per mounted view.
func (a *app) newDispatcher(navigator ports.Navigator) *application.Dispatcher {
	return application.NewDispatcher(a.gateway, navigator,
		application.WithRedirectDelay(a.config.RedirectDelay),
		application.WithDispatcherLogger(a.logger),
	)
}

// renderOptions sizes markdown to the terminal. Output that is not a terminal
// gets the plain style unless AICMS_MD_STYLE forces one.
func (a *app) renderOptions(out io.Writer) articlerender.RenderOptions {
	opts := articlerender.RenderOptions{MarkdownStyle: markdown.Style()}

	file, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		if os.Getenv("AICMS_MD_STYLE") == "" {
			opts.MarkdownStyle = markdown.StylePlain
		}
		return opts
	}

	if width, _, err := term.GetSize(int(file.Fd())); err == nil {
		opts.Width = width
	}
	return opts
}
