package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"lab_backend/internal/app/di"
)

// NewRouter はすべてのエンドポイントを登録したgin.Engineを返します。
func NewRouter(c *di.Container, allowOrigins []string) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(corsConfig(allowOrigins)))

	// 導通確認用
	r.GET("/healthz", c.Health.Health)
	r.HEAD("/healthz", c.Health.Health)
	r.OPTIONS("/healthz", c.Health.Health)

	// ローカル保存したプロフィール画像
	if c.UploadDir != "" {
		r.Static("/uploads", c.UploadDir)
	}

	api := r.Group("/api")

	// 認証不要
	api.POST("/auth/signup", c.Auth.Signup)
	api.POST("/auth/register", c.Auth.Signup)
	api.POST("/auth/login", c.Auth.Login)
	// 生体認証トークンでのログイン（セッショントークンは拒否される）
	api.POST("/auth/login/biometric", c.Auth.LoginWithBiometric)
	api.GET("/articles", c.Article.List)
	api.GET("/articles/:id", c.Article.Get)

	// 認証必須のルート
	auth := api.Group("")
	auth.Use(c.AuthRequired)
	{
		auth.GET("/auth/me", c.Auth.Me)
		auth.PUT("/auth/biometric", c.Auth.SetBiometric)
		auth.POST("/auth/biometric/token", c.Auth.IssueBiometricToken)

		auth.GET("/users", c.User.List)
		auth.GET("/users/:email", c.User.GetByEmail)
		auth.PUT("/users/me", c.User.UpdateMe)
		auth.POST("/users/fcm-token", c.User.RegisterFCMToken)
		auth.GET("/devices", c.User.ListDevices)

		auth.POST("/articles", c.Article.Create)
		auth.DELETE("/articles/:id", c.Article.Delete)

		auth.GET("/favorites", c.Favorite.List)
		auth.POST("/favorites", c.Favorite.Add)
		auth.DELETE("/favorites/:articleId", c.Favorite.Remove)

		auth.POST("/messages/send", c.Message.Send)
		auth.GET("/messages/received", c.Message.Received)
	}

	return r
}

func corsConfig(allowOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(allowOrigins) == 0 || (len(allowOrigins) == 1 && allowOrigins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowOrigins
	}
	return cfg
}
