// Command mazeroute plans the best survivable route through a maze file.
//
//	mazeroute -maze maze.yaml [-config run.yaml] [-workers N] [-db runs.db] [-json] [-v]
//	mazeroute -db runs.db -history 10
//
// Exit status is 1 for usage and configuration errors and 2 when the maze has
// no route.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/katalvlaran/mazeroute/config"
	"github.com/katalvlaran/mazeroute/grid"
	"github.com/katalvlaran/mazeroute/mazefile"
	"github.com/katalvlaran/mazeroute/route"
	"github.com/katalvlaran/mazeroute/store"
)

const (
	exitOK      = 0
	exitUsage   = 1
	exitNoRoute = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// output is the -json document.
type output struct {
	Maze        string      `json:"maze"`
	RunID       string      `json:"run_id,omitempty"`
	Status      string      `json:"status"`
	Score       int64       `json:"score"`
	Health      int64       `json:"health"`
	Steps       int         `json:"steps"`
	Order       []grid.Cell `json:"order"`
	Path        []grid.Cell `json:"path"`
	Permutation int         `json:"permutation"`
	Evaluated   int         `json:"evaluated"`
	Survived    int         `json:"survived"`
	LegSearches int64       `json:"leg_searches"`
	CacheHits   int64       `json:"cache_hits"`
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("mazeroute", flag.ContinueOnError)
	fs.SetOutput(stderr)
	mazePath := fs.String("maze", "", "maze description (YAML)")
	cfgPath := fs.String("config", "", "run configuration (YAML); defaults apply when empty")
	workers := fs.Int("workers", -1, "goroutines evaluating orderings; overrides the config when >= 0")
	dbPath := fs.String("db", "", "SQLite run history; runs are saved when set")
	history := fs.Int("history", 0, "print the N most recent runs from -db and exit")
	asJSON := fs.Bool("json", false, "print the result as JSON")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	logger := log.New()
	logger.SetOutput(stderr)
	logger.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	var db *store.Store
	if *dbPath != "" {
		var err error
		if db, err = store.Open(*dbPath); err != nil {
			logger.WithError(err).Error("cannot open run history")
			return exitUsage
		}
		defer db.Close()
	}

	if *history > 0 {
		if db == nil {
			logger.Error("-history needs -db")
			return exitUsage
		}
		return printHistory(ctx, db, *history, stdout, logger)
	}

	if *mazePath == "" {
		fmt.Fprintln(stderr, "mazeroute: -maze is required")
		fs.Usage()
		return exitUsage
	}

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			logger.WithError(err).Error("bad configuration")
			return exitUsage
		}
	}
	if *workers >= 0 {
		cfg.Workers = *workers
	}

	maze, err := mazefile.Load(*mazePath)
	if err != nil {
		logger.WithError(err).Error("bad maze file")
		return exitUsage
	}
	problem, err := maze.Problem(cfg.Hostiles, cfg.StartHealth)
	if err != nil {
		logger.WithError(err).Error("bad maze file")
		return exitUsage
	}
	name := maze.Name
	if name == "" {
		name = *mazePath
	}

	res, planErr := route.Plan(ctx, problem, cfg.RouteOptions(logger.WithField("maze", name))...)
	rec, isRun := store.NewRun(name, res, planErr)
	if !isRun {
		logger.WithError(planErr).Error("planning failed")
		return exitUsage
	}

	out := output{
		Maze:        name,
		Status:      string(rec.Status),
		Score:       res.Score,
		Health:      res.Health,
		Steps:       res.Steps,
		Order:       res.Order,
		Path:        res.Path,
		Permutation: res.Permutation,
		Evaluated:   res.Evaluated,
		Survived:    res.Survived,
		LegSearches: res.LegSearches,
		CacheHits:   res.CacheHits,
	}
	if db != nil {
		if out.RunID, err = db.SaveRun(ctx, rec); err != nil {
			logger.WithError(err).Warn("run not saved")
		}
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			logger.WithError(err).Error("cannot write output")
			return exitUsage
		}
	} else {
		printText(stdout, out)
	}

	if planErr != nil {
		if !*asJSON {
			fmt.Fprintln(stdout, planErr)
		}
		return exitNoRoute
	}

	return exitOK
}

func printText(w io.Writer, o output) {
	fmt.Fprintf(w, "maze:    %s\n", o.Maze)
	fmt.Fprintf(w, "status:  %s\n", o.Status)
	if o.Status != string(store.StatusOK) {
		fmt.Fprintf(w, "tried:   %d orderings\n", o.Evaluated)
		return
	}
	fmt.Fprintf(w, "order:   %s\n", joinCells(o.Order))
	fmt.Fprintf(w, "score:   %d\n", o.Score)
	fmt.Fprintf(w, "health:  %d\n", o.Health)
	fmt.Fprintf(w, "steps:   %d\n", o.Steps)
	fmt.Fprintf(w, "path:    %s\n", joinCells(o.Path))
	if o.RunID != "" {
		fmt.Fprintf(w, "run:     %s\n", o.RunID)
	}
}

func printHistory(ctx context.Context, db *store.Store, n int, w io.Writer, logger log.FieldLogger) int {
	runs, err := db.Recent(ctx, n)
	if err != nil {
		logger.WithError(err).Error("cannot read run history")
		return exitUsage
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%s  %s  %-20s  %-20s  score=%d health=%d steps=%d\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.ID, r.Maze, r.Status, r.Score, r.Health, r.Steps)
	}

	return exitOK
}

func joinCells(cells []grid.Cell) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = c.String()
	}
	if len(parts) == 0 {
		return "-"
	}

	return strings.Join(parts, " ")
}
