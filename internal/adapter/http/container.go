package http

import (
	"todoapi/internal/adapter/database"
	"todoapi/internal/adapter/database/repository"
	"todoapi/internal/adapter/http/handler"
	"todoapi/internal/core/port"
	"todoapi/internal/core/service"
	"todoapi/internal/shared"
	"todoapi/pkg/auth"
	"todoapi/pkg/config"
)

type Container struct {
	UserRepo port.UserRepository
	TodoRepo port.TodoRepository
	TagRepo  port.TagRepository

	AuthUseCase port.AuthService
	TodoUseCase port.TodoService

	AuthHandler *handler.AuthHandler
	TodoHandler *handler.TodoHandler
}

func NewContainer(db *database.DB, cfg *config.AppConfig, metrics *shared.AppMetrics) *Container {
	userRepo := repository.NewUserRepository(db)
	todoRepo := repository.NewTodoRepository(db)
	tagRepo := repository.NewTagRepository(db)

	token := auth.NewJWT(cfg.JWTSecret, cfg.TokenTTL)

	authSvc := service.NewAuthService(userRepo, token)
	todoSvc := service.NewTodoService(todoRepo)

	return &Container{
		UserRepo: userRepo,
		TodoRepo: todoRepo,
		TagRepo:  tagRepo,

		AuthUseCase: authSvc,
		TodoUseCase: todoSvc,

		AuthHandler: handler.NewAuthHandler(authSvc, metrics),
		TodoHandler: handler.NewTodoHandler(todoSvc, metrics),
	}
}
