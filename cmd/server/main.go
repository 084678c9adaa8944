package main

import (
	"log"
	"strings"

	"github.com/kindnest/kindnest-api/internal/config"
	"github.com/kindnest/kindnest-api/internal/model"
	"github.com/kindnest/kindnest-api/internal/server"
	"github.com/kindnest/kindnest-api/pkg/database"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := seedRolesAndPermissions(db); err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}

	redisClient := connectRedis(cfg.RedisURL)
	meiliClient := connectMeili(cfg.MeiliSearchHost, cfg.MeiliMasterKey)

	srv, err := server.NewServer(cfg, db, redisClient, meiliClient)
	if err != nil {
		log.Fatalf("failed to build server: %v", err)
	}

	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// connectRedis is optional wiring: without Redis the app runs with live
// notifications and rate limiting disabled.
func connectRedis(url string) *redis.Client {
	if url == "" {
		log.Println("REDIS_URL not set, live notifications disabled")
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("invalid REDIS_URL, continuing without redis: %v", err)
		return nil
	}
	return redis.NewClient(opts)
}

// connectMeili is optional wiring: without Meilisearch post search falls
// back to database scans.
func connectMeili(host, masterKey string) meilisearch.ServiceManager {
	if host == "" {
		log.Println("MEILISEARCH_HOST not set, using database search")
		return nil
	}
	if !strings.HasPrefix(host, "http") {
		host = "http://" + host + ":7700"
	}
	return meilisearch.New(host, meilisearch.WithAPIKey(masterKey))
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Permission{},
		&model.Role{},
		&model.User{},
		&model.Post{},
		&model.Thread{},
		&model.Message{},
		&model.Report{},
		&model.Notification{},
		&model.NotificationSub{},
		&model.Filter{},
	)
}

// rolePermissions is the authorization matrix: which permissions each
// seeded role carries.
var rolePermissions = map[string][]string{
	model.RoleAdmin: {
		model.PermReadUser, model.PermPatchMyUser, model.PermPatchAnyUser,
		model.PermPostPost, model.PermPatchMyPost, model.PermPatchAnyPost,
		model.PermDeleteMyPost, model.PermDeleteAnyPost,
		model.PermReadMessages, model.PermPostMessage, model.PermDeleteMessages,
		model.PermPostReport, model.PermReadAdminBoard, model.PermBlockUser,
	},
	model.RoleModerator: {
		model.PermReadUser, model.PermPatchMyUser,
		model.PermPostPost, model.PermPatchMyPost, model.PermPatchAnyPost,
		model.PermDeleteMyPost, model.PermDeleteAnyPost,
		model.PermReadMessages, model.PermPostMessage, model.PermDeleteMessages,
		model.PermPostReport, model.PermReadAdminBoard, model.PermBlockUser,
	},
	model.RoleUser: {
		model.PermReadUser, model.PermPatchMyUser,
		model.PermPostPost, model.PermPatchMyPost, model.PermDeleteMyPost,
		model.PermReadMessages, model.PermPostMessage, model.PermDeleteMessages,
		model.PermPostReport,
	},
	// Blocked users keep read access so the client can show their own
	// profile and the release date, nothing more.
	model.RoleBlocked: {
		model.PermReadUser,
	},
}

func seedRolesAndPermissions(db *gorm.DB) error {
	permissions := make(map[string]model.Permission)
	for _, names := range rolePermissions {
		for _, name := range names {
			if _, ok := permissions[name]; ok {
				continue
			}
			perm := model.Permission{Name: name}
			if err := db.Where("name = ?", name).FirstOrCreate(&perm).Error; err != nil {
				return err
			}
			permissions[name] = perm
		}
	}

	for roleName, permNames := range rolePermissions {
		role := model.Role{Name: roleName}
		if err := db.Where("name = ?", roleName).FirstOrCreate(&role).Error; err != nil {
			return err
		}

		perms := make([]model.Permission, 0, len(permNames))
		for _, name := range permNames {
			perms = append(perms, permissions[name])
		}
		if err := db.Model(&role).Association("Permissions").Replace(perms); err != nil {
			return err
		}
	}

	return nil
}
