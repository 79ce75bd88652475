package database

import (
	"fmt"
	"log/slog"

	"github.com/cradle-sec/cradle/database/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func getDSN(host, user, password, dbname, port string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbname)
}

func NewConnection(host, user, password, dbname, port string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(getDSN(host, user, password, dbname, port)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

func RunMigrations(db *gorm.DB) error {
	slog.Info("running database migrations")
	return db.AutoMigrate(
		&models.Project{},
		&models.SBOMVersion{},
		&models.Component{},
		&models.DependencyVuln{},
		&models.VulnEvent{},
		&models.ComplianceReport{},
		&models.Notification{},
	)
}
