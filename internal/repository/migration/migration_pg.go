package migration

import (
	"database/sql"
	"os"

	"github.com/sirupsen/logrus"
)

func RunMigrations(db *sql.DB) error {
	content, err := os.ReadFile("internal/repository/migration/init.sql")
	if err != nil {
		logrus.Warnf("could not read migration file: %v", err)
		return nil
	}

	if _, err := db.Exec(string(content)); err != nil {
		return err
	}

	logrus.Info("migrations completed")
	return nil
}
