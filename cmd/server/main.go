package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/server"
	db "taskboard/repository/db"
	inmemory "taskboard/repository/inmemory"
)

type API interface {
	Start() error
	Shutdown(ctx context.Context) error
}

func main() {
	log.Println("Запуск сервиса задач...")

	cfg := server.ReadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[ERROR] Некорректная конфигурация: %v", err)
	}

	if err := RunMigrations(cfg); err != nil {
		log.Printf("[WARN] Ошибка применения миграций: %v", err)
	} else {
		log.Println("[SUCCESS] Миграции применены успешно")
	}

	userRepo, taskRepo, err := InitializeRepositories(cfg)
	if err != nil {
		log.Fatalf("[ERROR] Не удалось инициализировать хранилище: %v", err)
	}

	api := server.NewTaskAPI(userRepo, taskRepo, cfg)
	if api == nil {
		log.Fatal("[ERROR] Не удалось инициализировать API")
	}

	sigChan, serverErr := StartServer(api, cfg)

	select {
	case sig := <-sigChan:
		log.Printf("[INFO] Получен сигнал %v, начинаем graceful shutdown...", sig)
		if err := HandleShutdown(api, sig); err != nil {
			log.Printf("[ERROR] Ошибка при graceful shutdown: %v", err)
		} else {
			log.Println("[SUCCESS] Graceful shutdown выполнен успешно")
		}

	case err := <-serverErr:
		log.Printf("[ERROR] Ошибка сервера: %v", err)
	}

	log.Println("Сервис завершен")
}

// InitializeRepositories подключается к Postgres; при недоступной базе
// откатывается на хранилище в памяти.
func InitializeRepositories(cfg *server.Config) (server.UserRepository, server.TaskRepository, error) {
	dbStorage, err := db.NewStorage(cfg.DBStr)
	if err != nil {
		log.Println("[WARN] Не удалось подключиться к БД, используем память:", err)
		inmem := inmemory.NewStorage()
		return inmem, inmem, nil
	}
	return dbStorage, dbStorage, nil
}

func RunMigrations(cfg *server.Config) error {
	return db.Migration(cfg.DBStr, cfg.MigratePath)
}

func StartServer(api API, cfg *server.Config) (chan os.Signal, chan error) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Сервис запущен на %s:%d", cfg.Addr, cfg.Port)
		if err := api.Start(); err != nil {
			serverErr <- err
		}
	}()

	return sigChan, serverErr
}

func HandleShutdown(api API, sig os.Signal) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return api.Shutdown(shutdownCtx)
}
