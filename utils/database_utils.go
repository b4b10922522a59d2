// database_utils should be the canonical place to put shared DB utils.
// It should not include:
// 1. Any util that doesn't manipulate DB
// 2. Any util that contains business logic
package utils

import (
	"fmt"
	"os"
	"testing"

	"github.com/Luismorlan/tunemux/model"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	TestDBPrefix         = "testonlydb_"
	TestDBNameCharLength = 8
)

func randomTestDBName() string {
	return TestDBPrefix + RandomAlphabetString(TestDBNameCharLength)
}

// GetDBConnection get a connection to the database specified by env
func GetDBConnection() (*gorm.DB, error) {
	return GetCustomizedConnection(os.Getenv("DB_NAME"))
}

// GetCustomizedConnection connect to any postgres db on the configured host
func GetCustomizedConnection(dbName string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable", os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASS"), dbName, os.Getenv("DB_PORT"))
	return getDB(postgres.Open(dsn))
}

// GetSQLiteConnection opens a sqlite database at path, ":memory:" or a
// "file:...?mode=memory" URI are accepted as well. SQLite allows a single
// writer so the pool is capped to one connection.
func GetSQLiteConnection(path string) (*gorm.DB, error) {
	db, err := getDB(sqlite.Open(path))
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// OpenDatabase connects to the database selected by driver.
func OpenDatabase(driver string, sqlitePath string) (*gorm.DB, error) {
	switch driver {
	case DriverPostgres:
		return GetDBConnection()
	case DriverSQLite:
		return GetSQLiteConnection(sqlitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// IsPostgres reports whether db talks to postgres, row locks are only issued
// there.
func IsPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == DriverPostgres
}

// Create a temp DB for testing, note that this function should only be called
// in a testing environment with test state manager testing.T
// The database lives in memory and is dropped together with its connection
// when the test finishes.
func CreateTempDB(t *testing.T) (*gorm.DB, string) {
	t.Helper()
	dbName := randomTestDBName()
	db, err := GetSQLiteConnection(fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName))
	if err != nil {
		t.Fatalf("fail to create temp DB with name: %s, %s", dbName, err)
	}
	if err := DatabaseSetupAndMigration(db); err != nil {
		t.Fatalf("fail to migrate temp DB with name: %s, %s", dbName, err)
	}
	t.Cleanup(func() {
		conn, _ := db.DB()
		conn.Close()
	})

	return db, dbName
}

func getDB(dialector gorm.Dialector) (db *gorm.DB, err error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// DatabaseSetupAndMigration creates or updates every table the server needs.
func DatabaseSetupAndMigration(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Follow{},
		&model.Song{},
		&model.Playlist{},
		&model.PlaylistSong{},
		&model.AssetJob{},
	)
	return errors.Wrap(err, "failed to migrate database")
}
