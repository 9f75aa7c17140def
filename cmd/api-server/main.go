package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/manideepyelugam/Fairlx-sub016/core/config"
	"github.com/manideepyelugam/Fairlx-sub016/core/db"
	"github.com/manideepyelugam/Fairlx-sub016/core/telemetry"
	"github.com/manideepyelugam/Fairlx-sub016/internal/http/handler"
	"github.com/manideepyelugam/Fairlx-sub016/internal/http/middleware"
	"github.com/manideepyelugam/Fairlx-sub016/internal/http/router"
	"github.com/manideepyelugam/Fairlx-sub016/internal/service"
	"github.com/manideepyelugam/Fairlx-sub016/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			slog.Error("telemetry shutdown failed", "error", err)
		}
	}()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	stores := store.NewProvider(pool)

	events := service.NewEventBus()
	events.SubscribeTransitions(service.LoggingActivitySink{})

	sessionService := service.NewSessionService(stores.Sessions(), stores.Users())
	workspaceService := service.NewWorkspaceService(stores)
	workflowService := service.NewWorkflowService(stores, events)
	roleService := service.NewRoleService(stores)
	projectService := service.NewProjectService(stores)
	taskService := service.NewTaskService(stores, stores, events)
	mySpaceService := service.NewMySpaceService(stores, cfg.Aggregation.ShardTimeout)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	authed := api.Group("", middleware.RequireSession(sessionService))

	router.AuthRouter(api.Group("/auth"), handler.NewAuthHandler(sessionService, cfg.IsProduction()), sessionService)
	router.WorkspaceRouter(authed.Group("/workspaces"), handler.NewWorkspaceHandler(workspaceService), handler.NewRoleHandler(roleService))
	router.WorkflowRouter(authed.Group("/workflows"), handler.NewWorkflowHandler(workflowService))
	router.ProjectRouter(authed.Group("/projects"), handler.NewProjectHandler(projectService))
	router.SprintRouter(authed.Group("/sprints"), handler.NewProjectHandler(projectService))
	router.TaskRouter(authed.Group("/tasks"), handler.NewTaskHandler(taskService))
	router.SubtaskRouter(authed.Group("/subtasks"), handler.NewTaskHandler(taskService))
	router.MySpaceRouter(authed.Group("/my"), handler.NewMySpaceHandler(mySpaceService))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
