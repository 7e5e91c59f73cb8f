package di

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	articleadapters "lab_backend/internal/feature/article/adapters"
	articlehandler "lab_backend/internal/feature/article/transport/handler"
	articleusecase "lab_backend/internal/feature/article/usecase"
	authhandler "lab_backend/internal/feature/auth/transport/handler"
	authusecase "lab_backend/internal/feature/auth/usecase"
	messageadapters "lab_backend/internal/feature/message/adapters"
	messagehandler "lab_backend/internal/feature/message/transport/handler"
	messageusecase "lab_backend/internal/feature/message/usecase"
	userhandler "lab_backend/internal/feature/user/transport/handler"
	userusecase "lab_backend/internal/feature/user/usecase"
	"lab_backend/internal/platform/config"
	healthhandler "lab_backend/internal/platform/http/handler"
	jwtmw "lab_backend/internal/platform/jwt"
	"lab_backend/internal/platform/push"
)

// Container holds everything the router needs.
type Container struct {
	Auth     *authhandler.AuthHandler
	User     *userhandler.UserHandler
	Article  *articlehandler.ArticleHandler
	Favorite *articlehandler.FavoriteHandler
	Message  *messagehandler.MessageHandler
	Health   *healthhandler.HealthHandler

	// AuthRequired guards session routes.
	AuthRequired gin.HandlerFunc
	// UploadDir is served at /uploads when photos are stored locally.
	UploadDir string
}

// Options overrides collaborators that tests replace.
type Options struct {
	// Notifier replaces the provider built from cfg.Push.
	Notifier messageusecase.Notifier
}

// Build wires repositories, usecases and handlers. rdb may be nil.
func Build(ctx context.Context, cfg config.Config, db *gorm.DB, rdb *redis.Client, opts Options) (*Container, error) {
	users, err := NewUserRepository(cfg.Users, db)
	if err != nil {
		return nil, err
	}
	devices := NewDeviceRepository(rdb, db)
	articles := NewArticleRepository(rdb, db, cfg.CacheTTL)

	uploader, uploadDir, err := NewUploader(ctx, cfg.Upload)
	if err != nil {
		return nil, err
	}

	notifier := opts.Notifier
	if notifier == nil {
		var d *push.Dispatcher
		if d, err = NewNotifier(ctx, cfg.Push); err != nil {
			return nil, err
		}
		notifier = d
	}

	issuer := jwtmw.NewIssuer(cfg.JWT.Secret)
	verifier := jwtmw.NewVerifier(cfg.JWT.Secret)

	authUC := authusecase.NewAuthUsecase(users, issuer, verifier, devices, authusecase.TokenTTLs{
		Session:   cfg.JWT.SessionTTL,
		Biometric: cfg.JWT.BiometricTTL,
	})
	userUC := userusecase.NewUserUsecase(users, devices)
	articleUC := articleusecase.NewArticleUsecase(articles)
	favoriteUC := articleusecase.NewFavoriteUsecase(articleadapters.NewFavoriteGorm(db), articles)
	messageUC := messageusecase.NewMessageUsecase(messageadapters.NewMessageGorm(db), users, devices, notifier)

	var pinger healthhandler.Pinger
	if sqlDB, err := db.DB(); err == nil {
		pinger = sqlDB
	}

	return &Container{
		Auth:         authhandler.NewAuthHandler(authUC, uploader),
		User:         userhandler.NewUserHandler(userUC, uploader),
		Article:      articlehandler.NewArticleHandler(articleUC),
		Favorite:     articlehandler.NewFavoriteHandler(favoriteUC),
		Message:      messagehandler.NewMessageHandler(messageUC),
		Health:       healthhandler.NewHealthHandler(pinger),
		AuthRequired: jwtmw.AuthRequired(verifier, authUC),
		UploadDir:    uploadDir,
	}, nil
}
