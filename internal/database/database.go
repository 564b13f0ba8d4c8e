package database

import (
	"log"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the shared credential store handle. SQLite by default so the app runs
// as a single local process; PostgreSQL when DATABASE_URL is a postgres:// URI.
var DB *sqlx.DB

// Connect opens the credential database and initializes the schema.
func Connect(databaseURL string) error {
	driver := "sqlite3"
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		driver = "postgres"
	}

	db, err := sqlx.Open(driver, databaseURL)
	if err != nil {
		return err
	}

	if driver == "postgres" {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	} else {
		// SQLite serializes writes; a single connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return err
	}

	DB = db
	log.Printf("✅ Connected to %s credential store", driver)

	return InitTables()
}

// InitTables creates the users table if absent and applies additive column
// migrations so databases created by older versions keep working.
func InitTables() error {
	var ddl string
	if DB.DriverName() == "postgres" {
		ddl = `CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT,
			updated_at TEXT NOT NULL,
			provider TEXT DEFAULT 'email',
			provider_id TEXT,
			profile_picture TEXT,
			verified BOOLEAN DEFAULT FALSE
		)`
	} else {
		ddl = `CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT,
			updated_at TEXT NOT NULL,
			provider TEXT DEFAULT 'email',
			provider_id TEXT,
			profile_picture TEXT,
			verified BOOLEAN DEFAULT 0
		)`
	}

	if _, err := DB.Exec(ddl); err != nil {
		return err
	}

	// Columns introduced after the first release. ALTER fails when the column
	// already exists; that failure is expected and ignored.
	migrations := []string{
		`ALTER TABLE users ADD COLUMN provider TEXT DEFAULT 'email'`,
		`ALTER TABLE users ADD COLUMN provider_id TEXT`,
		`ALTER TABLE users ADD COLUMN profile_picture TEXT`,
		`ALTER TABLE users ADD COLUMN verified BOOLEAN DEFAULT 0`,
	}
	for _, m := range migrations {
		if _, err := DB.Exec(m); err != nil {
			if isDuplicateColumn(err) {
				continue
			}
			return err
		}
	}

	if _, err := DB.Exec(`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`); err != nil {
		return err
	}

	log.Println("✅ Credential tables initialized")
	return nil
}

func isDuplicateColumn(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate column") || strings.Contains(msg, "already exists")
}

// Disconnect closes the credential database.
func Disconnect() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
