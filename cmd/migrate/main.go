package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/MichalMitros/storefront-importer/migrations"
	"github.com/caarlos0/env/v6"
	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

type config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
}

func main() {
	flag.Usage = printUsage
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Fatal().
			Err(err).
			Msg("can't load .env file")
	}

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't parse env variables")
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open Postgres connection")
	}
	defer db.Close()

	m, err := migrations.New(db)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't create migrator")
	}

	switch args[0] {
	case "up":
		err = ignoreNoChange(m.Up())
	case "down":
		err = ignoreNoChange(m.Steps(-1))
	case "goto":
		if len(args) < 2 {
			logger.Fatal().Msg("version required, usage: migrate goto <version>")
		}
		var version uint64
		version, err = strconv.ParseUint(args[1], 10, 32)
		if err == nil {
			err = ignoreNoChange(m.Migrate(uint(version)))
		}
	case "version":
	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Fatal().
			Err(err).
			Str("command", args[0]).
			Msg("migration failed")
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		logger.Info().Msg("no migrations applied")
		return
	}
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't get migration version")
	}

	logger.Info().
		Uint("version", version).
		Bool("dirty", dirty).
		Msg("current migration version")
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: migrate <command>")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  up               apply all pending migrations")
	fmt.Fprintln(os.Stderr, "  down             roll back the last migration")
	fmt.Fprintln(os.Stderr, "  goto <version>   migrate to version")
	fmt.Fprintln(os.Stderr, "  version          print current version")
}
