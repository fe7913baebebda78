package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger"

	"health-vault-server/config"
	_ "health-vault-server/docs"
	"health-vault-server/internal/cipher"
	"health-vault-server/internal/handler"
	"health-vault-server/internal/repository"
	"health-vault-server/internal/security"
	"health-vault-server/internal/service"
	"health-vault-server/internal/util"
)

// @title Health-vault-server
// @version 1.0
// @description REST API защищённого хранилища медицинских документов

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка при закрытии Redis: %v", err)
		}
	}()

	srv, router := config.SetupServer(cfg.ServerAddr)

	vaultRepo := repository.NewVaultRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, time.Duration(cfg.TTL.Redis)*time.Second)

	s3Service, err := service.NewS3Service(ctx, &cfg.S3Config)
	if err != nil {
		log.Fatalf("Ошибка создания S3 сервиса: %v", err)
	}

	engine, err := cipher.NewEngine(cfg.Keys.EncryptionPassphrase, cfg.Keys.EncryptionSalt)
	if err != nil {
		log.Fatalf("Ошибка инициализации шифрования: %v", err)
	}

	capabilityService := security.NewCapabilityService([]byte(cfg.Keys.CapabilitySecret))
	alerter := util.NewAlertNotifier(cfg.Webhook.URL, cfg.Webhook.Timeout)

	vaultService := service.NewVaultService(vaultRepo, auditRepo, cacheRepo, s3Service, engine, capabilityService, alerter)
	vaultHandler := handler.NewVaultHandler(vaultService)

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	setupVaultRoutes(router, vaultHandler, cfg)

	runServer(ctx, srv)
}

func setupVaultRoutes(r chi.Router, h *handler.VaultHandler, cfg *config.AppConfig) {
	r.Route("/api/vault", func(r chi.Router) {
		r.Get("/expiry-options", h.GetExpiryOptions)
		r.Get("/roles", h.GetRoleGrants)

		r.Group(func(r chi.Router) {
			r.Use(security.PrincipalMiddleware([]byte(cfg.Keys.SessionSecret)))

			r.Post("/documents", h.UploadDocument)
			r.Get("/documents", h.ListDocuments)
			r.Post("/redeem", h.RedeemPayload)

			r.Route("/documents/{doc_id}", func(r chi.Router) {
				r.Get("/content", h.GetDocumentContent)
				r.Get("/log", h.GetAccessLogs)
				r.Delete("/", h.DeleteDocument)
			})
		})
	})
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
