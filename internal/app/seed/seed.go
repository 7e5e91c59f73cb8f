// Package seed はローカル開発用のサンプルデータを投入します。
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	articleentity "lab_backend/internal/feature/article/domain/entity"
	"lab_backend/internal/feature/auth/domain"
	authentity "lab_backend/internal/feature/auth/domain/entity"
	"lab_backend/internal/feature/auth/domain/repository"
)

// SamplePassword はサンプルユーザー共通のパスワードです。
const SamplePassword = "password123"

// Summary は投入した件数です。
type Summary struct {
	Users     int
	Articles  int
	Favorites int
}

var sampleUsers = []struct{ username, email string }{
	{"usuario1", "usuario1@example.com"},
	{"usuario2", "usuario2@example.com"},
}

var sampleArticles = []articleentity.Article{
	{Name: "Smartphone Galaxy S23", Description: "Smartphone de última generación con cámara de alta resolución.", Seller: "Electrónica TechStore", Rating: 4.7, Price: 999.99},
	{Name: "Laptop Ultradelgada", Description: "Laptop potente y ligera para trabajo y entretenimiento.", Seller: "PC & Accesorios", Rating: 4.5, Price: 1299.99},
	{Name: "Audífonos Inalámbricos", Description: "Audífonos con cancelación de ruido y conexión Bluetooth.", Seller: "Audio Premium", Rating: 4.8, Price: 199.99},
	{Name: "Smartwatch Deportivo", Description: "Reloj inteligente con monitor de ritmo cardíaco y GPS.", Seller: "Deportes Xtreme", Rating: 4.2, Price: 249.99},
	{Name: "Tableta Gráfica", Description: "Tableta para diseñadores profesionales.", Seller: "Tienda de Arte Digital", Rating: 4.6, Price: 349.99},
	{Name: "Cámara DSLR", Description: "Cámara profesional para fotos de alta calidad.", Seller: "Foto Studio", Rating: 4.9, Price: 899.99},
	{Name: "Consola de Videojuegos", Description: "La última consola con gráficos de alta definición.", Seller: "Gaming World", Rating: 4.7, Price: 499.99},
	{Name: "Altavoz Inteligente", Description: "Altavoz con asistente virtual integrado.", Seller: "Smart Home", Rating: 4.4, Price: 129.99},
}

// sampleFavorites は (ユーザー番号, 記事番号) の組です。
var sampleFavorites = [][2]int{{0, 0}, {0, 2}, {1, 1}, {1, 3}}

const placeholderImage = "https://via.placeholder.com/300"

// Run はサンプルユーザーを未登録の場合に作成し、記事テーブルが空の場合は記事とお気に入りを投入します。
// 何度実行しても重複は作りません。
func Run(ctx context.Context, db *gorm.DB, users repository.UserRepository) (Summary, error) {
	var sum Summary

	hash, err := bcrypt.GenerateFromPassword([]byte(SamplePassword), bcrypt.DefaultCost)
	if err != nil {
		return sum, fmt.Errorf("hash sample password: %w", err)
	}

	userIDs := make([]uint, len(sampleUsers))
	now := time.Now()
	for i, su := range sampleUsers {
		existing, err := users.FindByEmail(ctx, su.email)
		if err == nil {
			userIDs[i] = existing.ID
			continue
		}
		if !errors.Is(err, domain.ErrUserNotFound) {
			return sum, err
		}
		username := su.username
		u := &authentity.User{
			Username:    &username,
			Email:       su.email,
			Password:    string(hash),
			Role:        authentity.DefaultRole,
			LastLoginAt: &now,
		}
		if err := users.Create(ctx, u); err != nil {
			return sum, fmt.Errorf("create sample user %s: %w", su.email, err)
		}
		userIDs[i] = u.ID
		sum.Users++
	}

	var count int64
	if err := db.WithContext(ctx).Model(&articleentity.Article{}).Count(&count).Error; err != nil {
		return sum, err
	}
	if count > 0 {
		slog.Info("articles already present, skipping article seed", "count", count)
		return sum, nil
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		articles := make([]articleentity.Article, len(sampleArticles))
		copy(articles, sampleArticles)
		for i := range articles {
			articles[i].ImageURL = placeholderImage
		}
		if err := tx.Create(&articles).Error; err != nil {
			return err
		}

		favorites := make([]articleentity.Favorite, 0, len(sampleFavorites))
		for _, f := range sampleFavorites {
			favorites = append(favorites, articleentity.Favorite{UserID: userIDs[f[0]], ArticleID: articles[f[1]].ID})
		}
		if err := tx.Create(&favorites).Error; err != nil {
			return err
		}
		sum.Articles, sum.Favorites = len(articles), len(favorites)
		return nil
	})
	if err != nil {
		return Summary{Users: sum.Users}, fmt.Errorf("seed articles: %w", err)
	}
	return sum, nil
}
