package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/darasa/backoffice/core"
	"github.com/darasa/backoffice/core/assignment"
	"github.com/darasa/backoffice/core/cvrequest"
	"github.com/darasa/backoffice/core/session"
	"github.com/darasa/backoffice/core/user"
)

type (
	Options struct {
		Addr           string
		DisableReqLogs bool

		Conf   *core.Config
		Logger core.Logger

		// Shutdown is called when a request handler reports an
		// unrecoverable error; the composition root hooks it up to
		// graceful shutdown.
		Shutdown func()

		SessionSvc    *session.Service
		AssignmentSvc *assignment.Service
		CVRequestSvc  *cvrequest.Service
		UserSvc       *user.Service
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	shutdown := s.opts.Shutdown
	if shutdown == nil {
		shutdown = func() {}
	}
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, shutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(newJWTConfig(conf))

	registerSessionAPI(v1, jwt, s.opts.SessionSvc)
	registerAssignmentAPI(v1, jwt, s.opts.AssignmentSvc)
	registerCVRequestAPI(v1, jwt, s.opts.CVRequestSvc)
	registerUserAPI(v1, jwt, s.opts.UserSvc)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Addr)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Darasa Backoffice API!")
}
