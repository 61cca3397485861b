// Command geocode looks up coordinates for location names with Nominatim and optionally stores
// them in the locations table read by the API at startup.
//
//	geocode "Gilbert, AZ" "Chandler, AZ"
//	geocode -save < locations.txt
package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"weeklydinner/config"
	"weeklydinner/internal/adapters/geocode"
	"weeklydinner/internal/domain"
	"weeklydinner/internal/repository/postgres"
)

// nominatimInterval respects Nominatim's one request per second usage policy.
const nominatimInterval = time.Second

func main() {
	save := flag.Bool("save", false, "upsert results into the locations table")
	timeout := flag.Duration("timeout", 30*time.Second, "timeout per lookup")
	flag.Parse()

	logger := config.NewLogger()
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var repo domain.LocationRepository
	if *save {
		db, err := sql.Open("postgres", cfg.DBUrl)
		if err != nil {
			logger.Error("failed to open database", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		repo = postgres.NewLocationRepository(db)
	}

	queries := flag.Args()
	if len(queries) == 0 {
		queries, err = readLines(os.Stdin)
		if err != nil {
			logger.Error("failed to read locations", "err", err)
			os.Exit(1)
		}
	}
	if len(queries) == 0 {
		fmt.Fprintln(os.Stderr, `usage: geocode [-save] "City, Region" ...`)
		os.Exit(2)
	}

	geocoder := geocode.NewNominatimClient(nil, geocode.Config{
		BaseURL:   cfg.Geocode.NominatimURL,
		UserAgent: cfg.Geocode.UserAgent,
	}, logger)

	l := &lookup{geocoder: geocoder, repo: repo, out: os.Stdout, logger: logger, timeout: *timeout, interval: nominatimInterval}
	if failed := l.run(ctx, queries); failed > 0 {
		os.Exit(1)
	}
}

type lookup struct {
	geocoder domain.Geocoder
	repo     domain.LocationRepository // nil unless -save
	out      io.Writer
	logger   *slog.Logger
	timeout  time.Duration
	interval time.Duration
}

// run geocodes every query in order, prints one registry line per hit and returns the number of
// queries that failed.
func (l *lookup) run(ctx context.Context, queries []string) int {
	failed := 0
	for i, q := range queries {
		if i > 0 && l.interval > 0 {
			select {
			case <-ctx.Done():
				return failed + len(queries) - i
			case <-time.After(l.interval):
			}
		}
		if err := l.one(ctx, q); err != nil {
			failed++
			if errors.Is(err, domain.ErrNotFound) {
				l.logger.Warn("no coordinates found", "location", q)
				continue
			}
			l.logger.Error("geocode failed", "location", q, "err", err)
		}
	}
	return failed
}

func (l *lookup) one(ctx context.Context, query string) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	loc, err := l.geocoder.Geocode(ctx, query)
	if err != nil {
		return err
	}
	// Same shape as the entries in the embedded seed file.
	fmt.Fprintf(l.out, "%q: { lat: %v, lng: %v }\n", loc.Name, loc.Lat, loc.Lng)
	if l.repo == nil {
		return nil
	}
	if err := l.repo.Upsert(ctx, loc); err != nil {
		return fmt.Errorf("save %q: %w", query, err)
	}
	l.logger.Info("location saved", "location", loc.Name)
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" && !strings.HasPrefix(line, "#") {
			out = append(out, line)
		}
	}
	return out, sc.Err()
}
