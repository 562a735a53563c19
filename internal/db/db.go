package db

import (
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/oratioapp/oratio-backend/internal/deck"
	"github.com/oratioapp/oratio-backend/internal/models"
)

func Connect(dsn string) *gorm.DB {
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	if err := gdb.AutoMigrate(
		&models.User{},
		&deck.Presentation{},
		&deck.Slide{},
		&deck.Job{},
	); err != nil {
		log.Fatalf("automigrate: %v", err)
	}

	return gdb
}
