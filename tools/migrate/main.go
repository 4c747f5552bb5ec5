package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wicketline/score-predictor/migrations"
)

func main() {
	sink := flag.String("sink", "clickhouse", "audit sink: clickhouse or postgres")
	dsn := flag.String("dsn", "", "connection URL (defaults to CLICKHOUSE_URL or POSTGRES_URL)")
	describe := flag.Bool("describe", false, "print the audit table columns and row count after migrating")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	files, err := migrations.Load(*sink)
	if err != nil {
		log.Fatal(err)
	}

	switch *sink {
	case "clickhouse":
		url := firstNonEmpty(*dsn, os.Getenv("CLICKHOUSE_URL"))
		if url == "" {
			log.Fatal("missing -dsn or CLICKHOUSE_URL")
		}
		migrateClickHouse(ctx, url, files, *describe)
	case "postgres":
		url := firstNonEmpty(*dsn, os.Getenv("POSTGRES_URL"))
		if url == "" {
			log.Fatal("missing -dsn or POSTGRES_URL")
		}
		migratePostgres(ctx, url, files, *describe)
	default:
		log.Fatalf("unsupported sink %q", *sink)
	}
}

func migrateClickHouse(ctx context.Context, url string, files []migrations.File, describe bool) {
	opts, err := clickhouse.ParseDSN(url)
	if err != nil {
		log.Fatal(err)
	}
	conn, err := clickhouse.Open(opts)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	for _, f := range files {
		for _, stmt := range f.Statements() {
			if err := conn.Exec(ctx, stmt); err != nil {
				log.Fatalf("%s: %v", f.Name, err)
			}
		}
		fmt.Printf("applied %s\n", f.Name)
	}

	if !describe {
		return
	}

	var count uint64
	if err := conn.QueryRow(ctx, "SELECT count() FROM cricket.prediction_audit").Scan(&count); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Total predictions: %d\n", count)

	rows, err := conn.Query(ctx, "DESCRIBE cricket.prediction_audit")
	if err != nil {
		log.Fatal(err)
	}
	defer rows.Close()

	fmt.Println("Columns:")
	for rows.Next() {
		var name, ctype, defaultType, defaultExpr, comment, codecExpr, ttlExpr string
		if err := rows.Scan(&name, &ctype, &defaultType, &defaultExpr, &comment, &codecExpr, &ttlExpr); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("- %s: %s\n", name, ctype)
	}
}

func migratePostgres(ctx context.Context, url string, files []migrations.File, describe bool) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	for _, f := range files {
		if _, err := pool.Exec(ctx, f.SQL); err != nil {
			log.Fatalf("%s: %v", f.Name, err)
		}
		fmt.Printf("applied %s\n", f.Name)
	}

	if !describe {
		return
	}

	var count int64
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM prediction_audit").Scan(&count); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Total predictions: %d\n", count)

	rows, err := pool.Query(ctx, `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_name = 'prediction_audit'
		ORDER BY ordinal_position`)
	if err != nil {
		log.Fatal(err)
	}
	defer rows.Close()

	fmt.Println("Columns:")
	for rows.Next() {
		var name, ctype string
		if err := rows.Scan(&name, &ctype); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("- %s: %s\n", name, ctype)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
