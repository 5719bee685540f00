package db

import (
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"taskboard/internal/domain/errors"
)

// Migration применяет миграции из каталога migratePath к базе dbDSN.
func Migration(dbDSN string, migratePath string) error {
	if dbDSN == "" || migratePath == "" {
		return errors.ErrBadRequest
	}

	m, err := migrate.New(fmt.Sprintf("file://%s", migratePath), dbDSN)
	if err != nil {
		log.Println("[ERROR] Не удалось инициализировать миграции:", err)
		return err
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Println("[WARN] Ошибка при закрытии мигратора:", srcErr, dbErr)
		}
	}()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Println("[ERROR] Не удалось применить миграции:", err)
		return err
	}

	return nil
}
