package database

import (
	"testing"
)

func TestDialectSQLite(t *testing.T) {
	dialect := NewSQLiteDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "sqlite3"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if !dialect.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() should return true for SQLite")
		}
	})

	t.Run("RewriteQuery keeps placeholders", func(t *testing.T) {
		query := "SELECT id FROM users WHERE username = ? AND role = ?"
		if result := dialect.RewriteQuery(query); result != query {
			t.Errorf("RewriteQuery() = %v, want %v", result, query)
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "sqlite"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})
}

func TestDialectPostgreSQL(t *testing.T) {
	dialect := NewPostgresDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "postgres"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if dialect.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() should return false for PostgreSQL")
		}
	})

	t.Run("RewriteQuery numbers placeholders", func(t *testing.T) {
		query := "UPDATE users SET lives = ?, next_life_at = ? WHERE id = ?"
		expected := "UPDATE users SET lives = $1, next_life_at = $2 WHERE id = $3"
		if result := dialect.RewriteQuery(query); result != expected {
			t.Errorf("RewriteQuery() = %v, want %v", result, expected)
		}
	})

	t.Run("RewriteQuery without placeholders", func(t *testing.T) {
		query := "SELECT COUNT(*) FROM trails"
		if result := dialect.RewriteQuery(query); result != query {
			t.Errorf("RewriteQuery() = %v, want %v", result, query)
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "postgres"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})
}

func TestDialectMySQL(t *testing.T) {
	dialect := NewMySQLDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "mysql"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if !dialect.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() should return true for MySQL")
		}
	})

	t.Run("RewriteQuery keeps placeholders", func(t *testing.T) {
		query := "INSERT INTO user_exercises (user_id, exercise_id, correct) VALUES (?, ?, ?)"
		if result := dialect.RewriteQuery(query); result != query {
			t.Errorf("RewriteQuery() = %v, want %v", result, query)
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "mysql"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})
}
