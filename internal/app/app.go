package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"taskboard/internal/auth"
	"taskboard/internal/config"
	"taskboard/internal/handlers"
	"taskboard/internal/logger"
	"taskboard/internal/middleware"
	"taskboard/internal/repository/inmemory"
	"taskboard/internal/repository/postgres"
	"taskboard/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type App struct {
	config    *config.Config
	server    *http.Server
	router    *chi.Mux
	storage   service.Storage
	shutdowns []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	if err := a.initStorage(ctx); err != nil {
		return err
	}

	a.initRouter()

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      a.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	return nil
}

func (a *App) initStorage(ctx context.Context) error {
	switch a.config.Repository.Type {
	case "inmemory":
		a.storage = inmemory.New()
		logger.Info("App: Используется inmemory-хранилище")
	default:
		storage, err := postgres.New(ctx, a.config.Database.URL, postgres.Options{
			MaxConns:    int32(a.config.Database.MaxConnections),
			MinConns:    int32(a.config.Database.MinConnections),
			IdleTimeout: a.config.Database.IdleTimeout,
		})
		if err != nil {
			return fmt.Errorf("подключение к PostgreSQL: %w", err)
		}
		if err := storage.Migrate(); err != nil {
			storage.Close()
			return fmt.Errorf("миграции: %w", err)
		}
		a.storage = storage
	}

	a.shutdowns = append(a.shutdowns, func() {
		a.storage.Close()
	})
	return nil
}

func (a *App) initRouter() {
	tokens := auth.NewTokenManager(a.config.Auth.Secret, a.config.Auth.TokenTTL)

	authService := service.NewAuthService(a.storage, tokens)
	projectService := service.NewProjectService(a.storage, a.storage)
	taskService := service.NewTaskService(a.storage, a.storage, a.storage)
	labelService := service.NewLabelService(a.storage, a.storage)

	authHandler := handlers.NewAuthHandler(&authService, a.storage)
	projectHandler := handlers.NewProjectHandler(&projectService)
	taskHandler := handlers.NewTaskHandler(&taskService)
	labelHandler := handlers.NewLabelHandler(&labelService)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.RateLimit(100))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Post("/token", authHandler.Login)
	r.Post("/users", authHandler.Register)
	r.Get("/health", authHandler.HealthCheck)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(&authService))

		r.Get("/users/me", authHandler.Me)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectHandler.ListProjects)
			r.Post("/", projectHandler.CreateProject)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", projectHandler.GetProject)
				r.Patch("/", projectHandler.UpdateProject)
				r.Delete("/", projectHandler.DeleteProject)

				r.Get("/tasks", projectHandler.ProjectTasks)
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.ListTasks)
			r.Post("/", taskHandler.CreateTask)

			r.Get("/upcoming", taskHandler.UpcomingTasks)
			r.Get("/today", taskHandler.TodayTasks)
			r.Get("/overdue", taskHandler.OverdueTasks)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", taskHandler.GetTask)
				r.Patch("/", taskHandler.UpdateTask)
				r.Delete("/", taskHandler.DeleteTask)

				r.Post("/duplicate", taskHandler.DuplicateTask)
				r.Post("/labels/{label_id}", taskHandler.AssignLabel)
				r.Delete("/labels/{label_id}", taskHandler.RemoveLabel)
			})
		})

		r.Route("/labels", func(r chi.Router) {
			r.Get("/", labelHandler.ListLabels)
			r.Post("/", labelHandler.CreateLabel)

			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", labelHandler.UpdateLabel)
				r.Delete("/", labelHandler.DeleteLabel)

				r.Get("/tasks", labelHandler.LabelTasks)
			})
		})
	})

	a.router = r
}

func (a *App) Run() error {
	logger.Info("App: Сервер запущен на " + a.config.GetServerAddr())
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("запуск сервера: %w", err)
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) {
	logger.Info("App: Остановка сервера...")
	if err := a.server.Shutdown(ctx); err != nil {
		logger.Error("App: Ошибка остановки сервера", err)
	}

	// в обратном порядке регистрации
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}
