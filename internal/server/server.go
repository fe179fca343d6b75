package server

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/sagi-l/ci-dashboard/internal/config"
	"github.com/sagi-l/ci-dashboard/internal/repository"
	"github.com/sagi-l/ci-dashboard/internal/server/routes"
	"github.com/sagi-l/ci-dashboard/internal/upstream"
	"github.com/sagi-l/ci-dashboard/internal/upstream/argocd"
	"github.com/sagi-l/ci-dashboard/internal/upstream/github"
	"github.com/sagi-l/ci-dashboard/internal/upstream/jenkins"
	"github.com/sagi-l/ci-dashboard/internal/upstream/kube"
	"github.com/sagi-l/ci-dashboard/internal/usecase"
	"github.com/samber/do"
	"gorm.io/gorm"
	"k8s.io/client-go/kubernetes"
)

type Config struct {
	Port   int
	App    *config.Config
	Logger zerolog.Logger
}

type Server struct {
	e      *echo.Echo
	config *Config
}

func New(config *Config) *Server {
	e := echo.New()
	e.HidePort = true
	e.HideBanner = true
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogRemoteIP:  true,
		LogHost:      true,
		LogMethod:    true,
		LogURI:       true,
		LogUserAgent: true,
		LogStatus:    true,
		LogLatency:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			config.Logger.Info().
				Str("remote_ip", v.RemoteIP).
				Str("host", v.Host).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("user_agent", v.UserAgent).
				Int("status", v.Status).
				Int64("latency_ms", v.Latency.Milliseconds()).
				Msg("handled request")
			return nil
		},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			config.Logger.Error().Err(err).Bytes("stack", stack).Send()
			return err
		},
	}))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := config.Logger.WithContext(req.Context())
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	})

	s := &Server{e: e, config: config}
	s.init()
	return s
}

func (s *Server) init() {
	injector := do.New()
	s.injectDependencies(injector)
	s.registerRoutes(injector)
}

func (s *Server) injectDependencies(injector *do.Injector) {
	do.ProvideValue(injector, s.config.App)
	do.Provide(injector, func(i *do.Injector) (*gorm.DB, error) {
		return repository.NewSQLiteDB(s.config.App.DataDir)
	})
	do.Provide(injector, func(i *do.Injector) (repository.TriggerRepository, error) {
		db := do.MustInvoke[*gorm.DB](i)
		return repository.NewTriggerRepository(db), nil
	})
	do.Provide(injector, func(i *do.Injector) (upstream.CIServer, error) {
		return jenkins.New(s.config.App.Jenkins), nil
	})
	do.Provide(injector, func(i *do.Injector) (upstream.GitOps, error) {
		return argocd.New(s.config.App.ArgoCD), nil
	})
	do.Provide(injector, func(i *do.Injector) (upstream.SourceControl, error) {
		return github.New(s.config.App.GitHub, ""), nil
	})
	do.Provide(injector, func(i *do.Injector) (upstream.Orchestrator, error) {
		clientset := do.MustInvoke[kubernetes.Interface](i)
		return kube.New(clientset, s.config.App.Kubernetes), nil
	})
	do.Provide(injector, func(i *do.Injector) (kubernetes.Interface, error) {
		return kube.NewClientset()
	})
	do.Provide(injector, usecase.NewGetPipelineStatusUsecase)
	do.Provide(injector, usecase.NewGetSystemsStatusUsecase)
	do.Provide(injector, usecase.NewGetDeploymentVersionUsecase)
	do.Provide(injector, usecase.NewGetBuildHistoryUsecase)
	do.Provide(injector, usecase.NewGetBuildLogUsecase)
	do.Provide(injector, usecase.NewTriggerBuildUsecase)
	do.Provide(injector, usecase.NewListPendingDeploymentsUsecase)
	do.Provide(injector, usecase.NewApproveDeploymentUsecase)
	do.Provide(injector, usecase.NewRejectDeploymentUsecase)
	do.Provide(injector, usecase.NewListRecentTriggersUsecase)
}

func (s *Server) registerRoutes(injector *do.Injector) {
	routes.RegisterAPI(injector, s.e)
	routes.RegisterProbes(injector, s.e)
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.config.Logger.Info().Str("addr", addr).Msg("starting server")
	return s.e.Start(addr)
}

func (s *Server) Stop(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
