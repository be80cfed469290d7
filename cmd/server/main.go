package main

import (
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/quantummesh/impactview/internal/config"
	"github.com/quantummesh/impactview/internal/entity"
	"github.com/quantummesh/impactview/internal/server"
	"github.com/quantummesh/impactview/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	if cfg.AppEnv == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := seedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	redisClient := connectRedis(cfg.RedisURL)

	srv := server.NewServer(cfg, db, redisClient)

	log.Printf("Starting server on port %s", cfg.Port)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func connectRedis(redisURL string) *redis.Client {
	if redisURL == "" {
		log.Println("REDIS_URL not set; rate limiting, caching and live notifications disabled")
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	return redis.NewClient(opts)
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Profile{},
		&entity.Action{},
		&entity.ActionVerification{},
		&entity.CommunityTopic{},
		&entity.TopicVote{},
		&entity.Attachment{},
		&entity.Notification{},
	)
}

func seedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entity.User{}).
		Where("email = ?", "admin@impactview.local").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := entity.User{
		Email:        "admin@impactview.local",
		PasswordHash: string(hashedPasswordBytes),
		Role:         entity.RoleAdmin,
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&adminUser).Error; err != nil {
			return err
		}
		adminProfile := entity.Profile{
			UserID:     adminUser.ID,
			FullName:   "Administrator",
			TrustScore: 50,
		}
		if err := tx.Create(&adminProfile).Error; err != nil {
			return err
		}

		log.Println("Admin user seeded successfully")
		log.Println("   Email: admin@impactview.local")
		log.Println("   Password: admin123")
		return nil
	})
}
