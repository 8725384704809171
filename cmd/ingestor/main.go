package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/socat/omegeo/internal/adapters/postgres"
	"github.com/socat/omegeo/internal/pkg/config"
	"github.com/socat/omegeo/internal/pkg/logging"
	"github.com/socat/omegeo/internal/pkg/metrics"
)

// Manifest lists the gazetteer files to load.
type Manifest struct {
	Source   string         `json:"source"`
	Datasets []DatasetEntry `json:"datasets"`
}

// DatasetEntry is one downloadable gazetteer CSV.
type DatasetEntry struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	URL  string `json:"url"`
}

const batchSize = 500

func main() {
	cfg, err := config.Load("omegeo-ingestor")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format, "omegeo-ingestor")

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()
	repo := postgres.NewPlaceRepo(db)

	manifestPath := "manifest.json"
	if len(os.Args) > 1 {
		manifestPath = os.Args[1]
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		log.Fatalf("read manifest: %v", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		log.Fatalf("parse manifest: %v", err)
	}

	slog.Info("gazetteer ingest starting", "datasets", len(manifest.Datasets), "source", manifest.Source)

	// Optional CLI arg: comma-separated slug list
	slugFilter := map[string]bool{}
	if len(os.Args) > 2 {
		for _, s := range strings.Split(os.Args[2], ",") {
			slugFilter[strings.TrimSpace(s)] = true
		}
	}

	client := &http.Client{Timeout: 120 * time.Second}

	var wg sync.WaitGroup
	sem := make(chan struct{}, 4) // max 4 concurrent downloads

	for _, ds := range manifest.Datasets {
		if len(slugFilter) > 0 && !slugFilter[ds.Slug] {
			continue
		}

		wg.Add(1)
		go func(d DatasetEntry) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ingestDataset(ctx, repo, client, d); err != nil {
				slog.Error("dataset ingest failed", "slug", d.Slug, "error", err)
			}
		}(ds)
	}

	wg.Wait()
	slog.Info("ingestion complete")
}

func ingestDataset(ctx context.Context, repo *postgres.PlaceRepo, client *http.Client, ds DatasetEntry) error {
	logger := slog.With("slug", ds.Slug)
	logger.Info("downloading gazetteer", "url", ds.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ds.URL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d for %s", resp.StatusCode, ds.URL)
	}

	result, err := parseGazetteer(resp.Body, ds.Slug)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	metrics.GazetteerRowsIngested.WithLabelValues(ds.Slug, "accepted").Add(float64(len(result.Places)))
	metrics.GazetteerRowsIngested.WithLabelValues(ds.Slug, "invalid").Add(float64(result.Invalid))
	metrics.GazetteerRowsIngested.WithLabelValues(ds.Slug, "malformed").Add(float64(result.Malformed))

	for start := 0; start < len(result.Places); start += batchSize {
		end := min(start+batchSize, len(result.Places))
		if err := repo.UpsertBatch(ctx, result.Places[start:end]); err != nil {
			return fmt.Errorf("upsert rows %d-%d: %w", start, end, err)
		}
	}

	logger.Info("dataset done",
		"accepted", len(result.Places),
		"invalid", result.Invalid,
		"malformed", result.Malformed,
	)
	return nil
}
