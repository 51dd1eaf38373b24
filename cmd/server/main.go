// @title           Auth Service API
// @version         1.0
// @description     Minimal user registration and authentication backend.
// @description     Issues signed access tokens and guards the profile endpoint.

// @contact.name   Ivan Chernomyrdin
// @contact.url    https://github.com/IvanChernomyrdin

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
//
// Package main содержит точку входа сервера аутентификации.
//
// Пакет отвечает за инициализацию и жизненный цикл HTTP(S)-сервера, а именно:
//   - загрузку переменных окружения из файла .env (если он присутствует);
//   - загрузку конфигурации сервера из ./configs/server.yaml (путь меняется через CONFIG_PATH);
//   - открытие базы данных и применение миграций (или in-memory хранилище при db.driver=memory);
//   - создание репозиториев, сервисов, middleware и HTTP-обработчиков;
//   - запуск сервера с заданными таймаутами, по HTTPS если tls.enabled;
//   - обработку системных сигналов завершения (SIGINT, SIGTERM, SIGQUIT);
//   - корректное (graceful) завершение работы сервера с таймаутом.
//
// Пакет не содержит бизнес-логики и не предназначен для unit-тестирования.
// HTTP API сервера реализовано в пакете internal/server/api и документируется с помощью OpenAPI (Swagger).
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/IvanChernomyrdin/go-auth-service/internal/server/api"
	"github.com/IvanChernomyrdin/go-auth-service/internal/server/config"
	"github.com/IvanChernomyrdin/go-auth-service/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-auth-service/internal/server/middleware"
	h "github.com/IvanChernomyrdin/go-auth-service/internal/server/net/http"
	"github.com/IvanChernomyrdin/go-auth-service/internal/server/repository"
	"github.com/IvanChernomyrdin/go-auth-service/internal/server/service"
	"github.com/IvanChernomyrdin/go-auth-service/internal/shared/logger"

	_ "github.com/IvanChernomyrdin/go-auth-service/swagger/docs"
)

const defaultConfigPath = "./configs/server.yaml"

func main() {
	sugar := logger.NewHTTPLogger().Logger.Sugar()

	if err := godotenv.Load(); err != nil {
		sugar.Warnf("no .env file loaded, error: %v", err)
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		sugar.Fatal(err)
	}

	if err := run(cfg); err != nil {
		sugar.Fatalf("server stopped with error: %v", err)
	}
	sugar.Info("server gracefully stopped")
}

func run(cfg *config.Config) error {
	httpLogger := logger.New(cfg.LoggerOptions())
	defer httpLogger.Sync()
	sugar := httpLogger.Sugar()

	// создаём контекст и errgroup
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	// создаём репы
	var (
		users  service.UsersRepo
		health service.HealthRepo
	)
	switch cfg.DB.Driver {
	case config.DriverMemory:
		sugar.Warn("db.driver=memory: users are lost on restart")
		mem := repository.NewMemoryUsersRepository()
		users, health = mem, mem
	default:
		// подключаем базу данных
		db, err := config.OpenDB(ctx, cfg, httpLogger.Logger)
		if err != nil {
			return err
		}
		// делаем отложенное закрытие бд
		defer db.Close()

		pg := repository.NewUsersRepository(db, cfg.DB.QueryTimeout)
		users, health = pg, pg
	}

	hasher, err := crypto.NewPasswordHasher(cfg.Password.Hasher, cfg.Argon2Params(), cfg.Password.Bcrypt.Cost)
	if err != nil {
		return err
	}
	tokens := crypto.NewTokenManager(cfg.JWT())

	// создаём сервис
	svc := service.NewServices(service.Repositories{Users: users}, hasher, tokens, cfg.Auth.AccessTTL)
	// создаём хандлер
	guard := middleware.NewGuard(tokens, httpLogger.Logger)
	handler := api.NewHandler(svc, httpLogger, guard, health)
	handler.MaxBodyBytes = cfg.Server.MaxBodyBytes
	// создаём роутер
	router := h.NewRouter(handler)

	//создаём сервер
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
	}
	if cfg.TLS.Enabled {
		server.TLSConfig = &tls.Config{MinVersion: tlsVersion(cfg.TLS.MinVersion)}
	}

	g, ctx := errgroup.WithContext(ctx)

	// запускаем сервер
	g.Go(func() error {
		sugar.Infow("server started",
			zap.String("addr", server.Addr),
			zap.Bool("tls", cfg.TLS.Enabled),
			zap.String("db_driver", cfg.DB.Driver),
		)

		var err error
		if cfg.TLS.Enabled {
			err = server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// graceful shutdown с таймаутом из конфига
	g.Go(func() error {
		<-ctx.Done()

		sugar.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			cfg.Server.ShutdownTimeout,
		)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	// ожидание и единая обработка ошибок
	return g.Wait()
}

func tlsVersion(v string) uint16 {
	if v == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}
