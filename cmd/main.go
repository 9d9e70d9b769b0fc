package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"admin-service/internal/config"
	"admin-service/internal/database/postgres"
	"admin-service/internal/database/redis"
	"admin-service/internal/event"
	"admin-service/internal/handlers"
	"admin-service/internal/repository"
	"admin-service/internal/services"

	"github.com/gin-gonic/gin"
)

func setupLogging() (*os.File, error) {
	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = filepath.Join("/var", "log", "admin_service")
	}
	err := os.MkdirAll(logDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	cfg := config.New()
	if cfg.AuthCfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	db, err := postgres.ConnectAndCreateDB(cfg.PostgresCfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %s", err)
	}
	go postgres.RetryConnectOnFailed(30*time.Second, &db, cfg.PostgresCfg)

	if err := postgres.InitSchema(db); err != nil {
		log.Fatalf("failed to initialize schema: %s", err)
	}

	redisClient, err := redis.Connect(cfg.RedisCfg)
	if err != nil {
		log.Fatalf("failed to connect to redis: %s", err)
	}

	var auditPublisher *event.AuditPublisher
	if cfg.RabbitMQCfg.Enabled {
		rabbitConn, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg)
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, audit events disabled: %s", err)
		} else {
			defer rabbitConn.Close()
			auditPublisher = event.NewAuditPublisher(rabbitConn)
		}
	}

	userRepo := repository.NewUserRepository(db)
	rbacRepo := repository.NewRBACRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	sessionRepo := repository.NewSessionRepository(redisClient, cfg.AuthCfg.RefreshTokenTTL)

	jwtService := services.NewJWTService(cfg.AuthCfg.JWTSecret, cfg.AuthCfg.AccessTokenTTL, cfg.AuthCfg.RefreshTokenTTL)
	sessionService := services.NewSessionService(sessionRepo)
	userService := services.NewUserService(userRepo, rbacRepo, sessionService, jwtService, cfg.AuthCfg.AccessTokenTTL, cfg.AuthCfg.RefreshTokenTTL, auditPublisher)
	rbacService := services.NewRBACService(rbacRepo, userRepo, sessionService, auditPublisher)
	menuService := services.NewMenuService(menuRepo, auditPublisher)
	dataTablesService := services.NewDataTablesService(db)

	middleware := handlers.NewMiddleware(jwtService, sessionService)
	authHandler := handlers.NewAuthHandler(userService, rbacService)
	userHandler := handlers.NewUserHandler(userService, dataTablesService)
	rbacHandler := handlers.NewRBACHandler(rbacService)
	menuHandler := handlers.NewMenuHandler(menuService, dataTablesService)

	if err := handlers.InitDefaultData(userService, rbacService, cfg); err != nil {
		log.Printf("Warning: default data initialization failed: %s", err)
	}

	router := gin.Default()
	authHandler.RegisterRoutes(router, middleware)
	userHandler.RegisterRoutes(router, middleware)
	rbacHandler.RegisterRoutes(router, middleware)
	menuHandler.RegisterRoutes(router, middleware)

	log.Printf("admin-service listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %s", err)
	}
}
