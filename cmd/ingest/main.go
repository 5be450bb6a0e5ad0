// Command ingest populates the passage store from external documents. It
// shares nothing with the live server but the database.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"typeracer/internal/db"
	"typeracer/internal/ingest"
)

// Passages below this length are too short to make a satisfying race.
const minInsertLength = 120

const fetchWorkers = 4

func main() {
	_ = godotenv.Load()

	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: ingest <url1> <url2> ... | --file urls.txt")
		os.Exit(1)
	}

	urls, err := gatherURLs(args)
	if err != nil {
		log.Fatal(err.Error())
	}
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "No URLs provided")
		os.Exit(1)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL must be set for ingestion")
	}
	database, err := db.Connect(dsn)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer database.Close()
	if err := database.Migrate(); err != nil {
		log.Fatal(err.Error())
	}

	ctx := context.Background()
	fetcher := ingest.NewFetcher(fetchWorkers)

	totalInserted := 0
	for _, res := range fetcher.FetchAll(ctx, urls) {
		if res.Err != nil {
			log.Printf("[Ingest] Failed to fetch %s: %v\n", res.URL, res.Err)
			continue
		}
		inserted := 0
		for _, text := range res.Passages {
			if len(text) < minInsertLength {
				continue
			}
			fresh, err := database.InsertPassage(ctx, text, res.URL)
			if err != nil {
				log.Fatal(err.Error())
			}
			if fresh {
				inserted++
			}
		}
		log.Printf("[Ingest] Inserted %d new passages from %s\n", inserted, res.URL)
		totalInserted += inserted
	}
	log.Printf("[Ingest] Total inserted: %d\n", totalInserted)
}

func gatherURLs(args []string) ([]string, error) {
	if args[0] != "--file" {
		return args, nil
	}
	if len(args) < 2 {
		return nil, fmt.Errorf("--file requires a path")
	}
	f, err := os.Open(args[1])
	if err != nil {
		return nil, fmt.Errorf("opening url list: %w", err)
	}
	defer f.Close()
	return ingest.ReadURLList(f)
}
