package sqlstore

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratesqlite3 "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var dbMigrations embed.FS

// migrateDB brings the schema up to date. Migrations are kept per dialect:
// the auto-increment and blob column syntax differs between MySQL and
// SQLite.
func migrateDB(db *sql.DB, driverName string) error {
	src, err := iofs.New(dbMigrations, "migrations/"+driverName)
	if err != nil {
		return err
	}

	var dst database.Driver
	switch driverName {
	case "mysql":
		dst, err = migratemysql.WithInstance(db, &migratemysql.Config{})
	case "sqlite3":
		dst, err = migratesqlite3.WithInstance(db, &migratesqlite3.Config{})
	default:
		return fmt.Errorf("no migrations for driver %q", driverName)
	}
	if err != nil {
		return err
	}

	migrator, err := migrate.NewWithInstance("iofs", src, driverName, dst)
	if err != nil {
		return err
	}

	err = migrator.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		// db already up to date
		break
	case err != nil:
		return err
	}
	return nil
}
