package main

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/RaiderT63/foodgram/config"
)

// Seeds the ingredient and tag catalogs from headerless CSV files
// (name,measurement_unit and name,slug). Re-running is safe: existing rows
// are skipped.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	n, err := seedCSV(db, cfg.IngredientsCSV, `
		INSERT INTO ingredients (name, measurement_unit) VALUES ($1, $2)
		ON CONFLICT (name, measurement_unit) DO NOTHING
	`)
	if err != nil {
		log.Fatalf("failed to seed ingredients: %v", err)
	}
	fmt.Printf("ingredients seeded: %d rows inserted\n", n)

	n, err = seedCSV(db, cfg.TagsCSV, `
		INSERT INTO tags (name, slug) VALUES ($1, $2)
		ON CONFLICT (slug) DO NOTHING
	`)
	if err != nil {
		log.Fatalf("failed to seed tags: %v", err)
	}
	fmt.Printf("tags seeded: %d rows inserted\n", n)
}

func seedCSV(db *sql.DB, path, insert string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2

	rows, err := r.ReadAll()
	if err != nil {
		return 0, err
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var inserted int64
	for _, rec := range rows {
		res, err := tx.Exec(insert, rec[0], rec[1])
		if err != nil {
			return 0, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted += n
		}
	}
	return inserted, tx.Commit()
}
