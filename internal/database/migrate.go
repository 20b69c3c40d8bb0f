package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrations embed.FS

func ensureDatabase(databaseURL string, log *zap.Logger) error {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return fmt.Errorf("parse database url: %w", err)
	}
	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return fmt.Errorf("database name is empty in url")
	}
	u.Path = "/postgres"
	db, err := sql.Open("postgres", u.String())
	if err != nil {
		return fmt.Errorf("open admin connection: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping admin connection: %w", err)
	}
	var exists bool
	if err := db.QueryRow("SELECT true FROM pg_database WHERE datname = $1", dbName).Scan(&exists); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check database existence: %w", err)
	}
	if exists {
		return nil
	}
	if _, err = db.Exec("CREATE DATABASE " + pq.QuoteIdentifier(dbName)); err != nil {
		return fmt.Errorf("create database %q: %w", dbName, err)
	}
	log.Info("database: created", zap.String("database", dbName))
	return nil
}

// MigrateUp creates the database if needed and applies the embedded migrations.
func MigrateUp(databaseURL string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	if err := ensureDatabase(databaseURL, log); err != nil {
		return fmt.Errorf("ensure database: %w", err)
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	before, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("goose version: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	after, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("goose version: %w", err)
	}
	if after == before {
		log.Info("migrate: no pending migrations", zap.Int64("version", after))
	} else {
		log.Info("migrate: up ok", zap.Int64("from", before), zap.Int64("to", after))
	}
	return nil
}
