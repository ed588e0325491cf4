// Command bioflow-server provides a REST API for pairwise alignment.
//
// Usage:
//
//	bioflow-server [options]
//
// Options:
//
//	-port       Port to listen on (default: 8080)
//	-host       Host to bind to (default: localhost)
//	-profile    YAML scoring profile used when a request carries no scores
//	-max-cells  Traceback cell ceiling per alignment
//	-workers    Batch alignment workers (default: GOMAXPROCS)
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aria-lang/bioflow-align/api"
	"github.com/aria-lang/bioflow-align/api/handlers"
	"github.com/aria-lang/bioflow-align/pkg/bioflow"
)

func main() {
	port := flag.Int("port", 8080, "Port to listen on")
	host := flag.String("host", "localhost", "Host to bind to")
	profilePath := flag.String("profile", "", "YAML scoring profile for requests without scores")
	maxCells := flag.Int64("max-cells", handlers.DefaultMaxCells, "Traceback cell ceiling per alignment")
	workers := flag.Int("workers", 0, "Batch alignment workers (0 = GOMAXPROCS)")
	flag.Parse()

	scores := bioflow.DefaultScores()
	if *profilePath != "" {
		profile, err := bioflow.LoadProfile(*profilePath)
		if err != nil {
			log.Fatalf("Could not load profile: %v\n", err)
		}
		if scores, err = profile.ScoreConfig(); err != nil {
			log.Fatalf("Invalid profile %s: %v\n", *profilePath, err)
		}
		log.Printf("Using scoring profile %q: %s\n", profile.Name, scores)
	}

	align := handlers.NewAlignment(scores)
	align.MaxCells = *maxCells
	align.Workers = *workers

	r := api.NewRouter(api.Options{Alignment: align})

	// Home page
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(homePage))
	})

	addr := fmt.Sprintf("%s:%d", *host, *port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Could not gracefully shutdown: %v\n", err)
		}
		close(done)
	}()

	log.Printf("bioflow-align API server starting on http://%s\n", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", addr, err)
	}

	<-done
	log.Println("Server stopped")
}

const homePage = `<!DOCTYPE html>
<html>
<head>
    <title>bioflow-align API</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 800px; margin: 2rem auto; padding: 0 1rem; }
        h1 { color: #2563eb; }
        pre { background: #f3f4f6; padding: 1rem; border-radius: 0.5rem; overflow-x: auto; }
        .endpoint { margin: 1rem 0; padding: 1rem; border: 1px solid #e5e7eb; border-radius: 0.5rem; }
        .method { display: inline-block; padding: 0.25rem 0.5rem; background: #10b981; color: white; border-radius: 0.25rem; font-size: 0.875rem; }
    </style>
</head>
<body>
    <h1>bioflow-align API</h1>
    <p>A REST API for pairwise DNA alignment.</p>

    <h2>Endpoints</h2>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/local</code>
        <p>Smith-Waterman local alignment. Any field of <code>scores</code> overrides the server profile.</p>
        <pre>{"sequence1": "ATGCATGC", "sequence2": "ATGCGGGG", "scores": {"match": 2, "gap_open": -4}}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/global</code>
        <p>Needleman-Wunsch global alignment.</p>
        <pre>{"sequence1": "ACGT", "sequence2": "AGT"}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/banded</code>
        <p>Local alignment restricted to a corridor around the diagonal.</p>
        <pre>{"sequence1": "...", "sequence2": "...", "scores": {"band": {"initial_half_width": 20, "max_path_len_diff": 0.1}}}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/anchors</code>
        <p>Outermost exact-match runs of a local alignment.</p>
        <pre>{"sequence1": "ACGAT", "sequence2": "ACGT", "min_length": 3}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/batch</code>
        <p>Align one query against many targets in parallel.</p>
        <pre>{"query": "ACGTACGT", "targets": ["ACGT", "TTACGTAA"], "global": false}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/sequence/reverse-complement</code>
        <p>Reverse complement, keeping soft-masked case.</p>
        <pre>{"sequence": "ACGTacgt"}</pre>
    </div>

    <p>For more information, see the <a href="https://github.com/aria-lang/bioflow-align">documentation</a>.</p>
</body>
</html>`
