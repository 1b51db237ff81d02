package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"gamereview/book"
	"gamereview/config"
	"gamereview/render"
	"gamereview/review"
	"gamereview/tablebase"
)

func main() {
	var (
		depth      = flag.Int("depth", 15, "engine search depth per query")
		bookArg    = flag.String("book", "", "opening book name or path (empty disables Book grades)")
		endgame    = flag.Bool("endgame", false, "enable endgame tablebase lookups (<= 5 pieces)")
		configPath = flag.String("config", "", "path to YAML config file")
		enginePath = flag.String("engine", "", "engine binary (overrides config)")
		showBoard  = flag.Bool("show-board", false, "print the board after each move")
		noColor    = flag.Bool("no-color", false, "disable colored output")
		verbose    = flag.Bool("v", false, "verbose logging")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <game.pgn>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	logLevel := zerolog.WarnLevel
	if *verbose {
		logLevel = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(logLevel).
		With().Timestamp().Logger()

	opts := runOptions{
		pgnPath:    flag.Arg(0),
		depth:      *depth,
		book:       *bookArg,
		endgame:    *endgame,
		configPath: *configPath,
		enginePath: *enginePath,
		showBoard:  *showBoard,
		noColor:    *noColor,
	}

	if err := run(opts, log); err != nil {
		log.Error().Err(err).Msg("analysis failed")
		os.Exit(1)
	}
}

type runOptions struct {
	pgnPath    string
	depth      int
	book       string
	endgame    bool
	configPath string
	enginePath string
	showBoard  bool
	noColor    bool
}

func run(o runOptions, log zerolog.Logger) error {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		cfg, err = config.Load(o.configPath)
		if err != nil {
			return err
		}
	}
	if o.enginePath != "" {
		cfg.Engine.Path = o.enginePath
	}

	game, err := loadGame(o.pgnPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		select {
		case <-sig:
			fmt.Println("\nanalysis interrupted")
			signal.Stop(sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	engine := review.NewEngine(review.EngineConfig{
		Path:    cfg.Engine.Path,
		Threads: cfg.Engine.Threads,
		Hash:    cfg.Engine.Hash,
		Logger:  log,
	})
	if err := engine.Start(ctx); err != nil {
		return err
	}
	defer engine.Close()

	opts := review.Options{
		Depth:  o.depth,
		Logger: log,
	}

	if o.book != "" {
		path := book.Resolve(o.book, cfg.BooksDir)
		b, err := book.Load(path)
		if err != nil {
			// book trouble is never fatal, it just disables Book grades
			log.Warn().Err(err).Msg("opening book unavailable")
		} else {
			log.Debug().Int("positions", b.PosCount()).Str("path", path).Msg("opening book loaded")
			opts.Book = b
		}
	}

	if o.endgame {
		opts.Tablebase = tablebase.NewClient(
			tablebase.WithBaseURL(cfg.TablebaseURL),
			tablebase.WithLogger(log),
		)
	}

	var termOpts []render.TerminalOption
	if o.noColor {
		termOpts = append(termOpts, render.NoColor())
	}
	if o.showBoard {
		termOpts = append(termOpts, render.ShowBoard())
	}
	term := render.NewTerminal(os.Stdout, termOpts...)

	res, err := review.Review(ctx, game, engine, opts, term)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// print what we have; tallies are append-only so a partial
			// summary is consistent
			term.Summary(res.White, res.Black)
			return nil
		}
		return err
	}

	return nil
}

func loadGame(path string) (*chess.Game, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", path, err)
	}
	defer fp.Close()

	pgn, err := chess.PGN(fp)
	if err != nil {
		return nil, fmt.Errorf("parse PGN '%s': %w", path, err)
	}

	game := chess.NewGame(pgn)
	if len(game.Moves()) == 0 {
		return nil, fmt.Errorf("'%s': no moves found", path)
	}

	return game, nil
}
