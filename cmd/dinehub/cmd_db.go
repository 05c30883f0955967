package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/dinehub/app/repositories"
	"github.com/shashiranjanraj/dinehub/config"
	"github.com/shashiranjanraj/dinehub/database/seeders"
	"github.com/shashiranjanraj/dinehub/internal/kernel"
	"github.com/shashiranjanraj/dinehub/pkg/database"
	"github.com/shashiranjanraj/dinehub/pkg/migration"
	"github.com/shashiranjanraj/dinehub/pkg/mongodb"
)

const dbTimeout = 30 * time.Second

// withSQL opens the configured SQL database for fn. The mongo and memory
// drivers have no schema to migrate.
func withSQL(fn func(db *gorm.DB) error) error {
	if err := config.Load(); err != nil {
		return err
	}
	driver := config.StoreDriver()
	if !config.IsSQLDriver(driver) {
		return fmt.Errorf("STORE_DRIVER=%s has no SQL schema; migrations apply to sqlite, postgres, mysql and sqlserver", driver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	db, err := database.Open(ctx, driver, config.DatabaseDSN())
	if err != nil {
		return err
	}
	defer database.Close(db) //nolint:errcheck
	return fn(db)
}

// dinehub migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run pending migrations (SQL) or create indexes (mongo)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		if config.StoreDriver() == "mongo" {
			return ensureMongoIndexes()
		}
		return withSQL(func(db *gorm.DB) error {
			fmt.Println("Running migrations…")
			return migration.New(db).Run()
		})
	},
}

func ensureMongoIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	db, err := mongodb.Connect(ctx, config.MongoURI(), config.MongoDatabase())
	if err != nil {
		return err
	}
	defer mongodb.Disconnect(context.Background(), db) //nolint:errcheck

	if err := repositories.EnsureMongoIndexes(ctx, db); err != nil {
		return err
	}
	fmt.Println("✅ MongoDB indexes ensured")
	return nil
}

// dinehub migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Roll back the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSQL(func(db *gorm.DB) error {
			fmt.Println("Rolling back last batch…")
			return migration.New(db).Rollback()
		})
	},
}

// dinehub migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSQL(func(db *gorm.DB) error {
			return migration.New(db).Status()
		})
	},
}

// dinehub seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the configured admin account (and a sample menu with --demo)",
	RunE: func(cmd *cobra.Command, args []string) error {
		demo, _ := cmd.Flags().GetBool("demo")

		ctx := context.Background()
		k, err := kernel.Boot(ctx, kernel.Options{Offline: true})
		if err != nil {
			return err
		}
		defer k.Close(ctx)

		fmt.Println("Running seeders…")
		return seeders.RunAll(ctx, k, demo, os.Stdout)
	},
}

func init() {
	seedCmd.Flags().Bool("demo", false, "also seed a sample menu")
}
