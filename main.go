package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/manip-survey-data/agreement.report/internal/agreement"
	"github.com/manip-survey-data/agreement.report/internal/api"
	"github.com/manip-survey-data/agreement.report/internal/surveydb"
	"github.com/manip-survey-data/agreement.report/internal/version"
)

var (
	listen      = flag.String("listen", ":8080", "Listen address")
	dbFile      = flag.String("db", "survey_data.db", "Path to the survey sqlite database")
	configFile  = flag.String("config", agreement.DefaultConfigPath, "Path to the analysis config JSON")
	analyse     = flag.Bool("analyse", false, "Compute the agreement report once, print it as JSON, and exit")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	cfg, err := agreement.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load analysis config: %v", err)
	}

	db, err := surveydb.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if *analyse {
		if err := analyseOnce(db, *cfg); err != nil {
			log.Fatalf("Analysis failed: %v", err)
		}
		return
	}

	if *listen == "" {
		log.Fatal("Listen address is required")
	}
	serve(db, *cfg)
}

// analyseOnce runs the full agreement analysis against the store and prints
// the report JSON to stdout, with a short readable summary on stderr.
func analyseOnce(db *surveydb.DB, cfg agreement.Config) error {
	subs, convs, err := db.Snapshot()
	if err != nil {
		return err
	}

	report, err := agreement.Run(cfg, subs, convs)
	if err != nil {
		return err
	}

	if overall, ok := report.Coefficients[agreement.KindKrippendorff][agreement.ScopeOverall]; ok {
		if overall.Value != nil {
			log.Printf("overall alpha %.3f (%s) over %d items",
				*overall.Value, agreement.InterpretAlpha(*overall.Value), overall.SampleSize)
		} else {
			log.Printf("overall alpha undefined (insufficient data)")
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

func serve(db *surveydb.DB, cfg agreement.Config) {
	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := api.NewServer(db, cfg).ServeMux()
		server := &http.Server{
			Addr:    *listen,
			Handler: api.LoggingMiddleware(mux),
		}

		// Start server in a goroutine so it doesn't block
		go func() {
			log.Printf("listening on %s", *listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		// Wait for context cancellation to shut down server
		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}

		log.Printf("HTTP server routine stopped")
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
