package review

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Evaluator is the single query the analysis loop and classifier need from an
// engine. Implementations must be safe for strictly sequential use; calls
// block until the engine answers or ctx is cancelled.
type Evaluator interface {
	Evaluate(ctx context.Context, fenPos string, depth int) (Eval, error)
}

// EngineConfig configures the UCI engine subprocess.
type EngineConfig struct {
	Path    string
	Threads int
	Hash    int
	Logger  zerolog.Logger
}

// Engine runs a UCI engine as a child process and bridges its stdin/stdout
// through channels. It is acquired once per match analysis and released with
// Close, including on interrupted paths.
type Engine struct {
	input  chan string
	output chan string

	cfg    EngineConfig
	log    zerolog.Logger
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mtx     sync.Mutex
	started bool
}

func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Path == "" {
		cfg.Path = "stockfish"
	}
	if cfg.Threads == 0 {
		cfg.Threads = 1
	}
	if cfg.Hash == 0 {
		cfg.Hash = 256
	}

	return &Engine{
		input:  make(chan string, 512),
		output: make(chan string, 512),
		cfg:    cfg,
		log:    cfg.Logger,
	}
}

// Start launches the engine process and completes the UCI handshake.
func (e *Engine) Start(ctx context.Context) error {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	if e.started {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel

	cmd := exec.CommandContext(ctx, e.cfg.Path)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		return err
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return err
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return err
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("start engine '%s': %w", e.cfg.Path, err)
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		for {
			select {
			case line := <-e.input:
				e.log.Trace().Str("line", line).Msg("-> engine")
				if _, err := stdin.Write([]byte(line + "\n")); err != nil {
					e.log.Error().Err(err).Msg("engine stdin write")
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	// stderr loop
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		r := bufio.NewScanner(stderr)
		for r.Scan() {
			select {
			case <-ctx.Done():
				return
			default:
				e.log.Warn().Str("line", r.Text()).Msg("engine stderr")
			}
		}
	}()

	// stdout loop
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		r := bufio.NewScanner(stdout)
		for r.Scan() {
			select {
			case <-ctx.Done():
				return
			default:
			}

			line := r.Text()
			e.log.Trace().Str("line", line).Msg("<- engine")

			select {
			case e.output <- line:
			case <-ctx.Done():
				return
			}
		}
		if err := r.Err(); err != nil {
			e.log.Error().Err(err).Msg("engine stdout")
		}
	}()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if err := cmd.Wait(); err != nil {
			if !strings.Contains(err.Error(), "killed") {
				e.log.Warn().Err(err).Msg("engine exited")
			}
		}
	}()

	e.input <- "uci"

	if err := e.handshake(ctx); err != nil {
		cancel()
		return err
	}

	e.started = true
	return nil
}

func (e *Engine) handshake(ctx context.Context) error {
	var sentNewGame bool

	deadline := time.NewTimer(30 * time.Second)
	defer deadline.Stop()

	for {
		select {
		case line := <-e.output:
			switch line {
			case "uciok":
				e.input <- fmt.Sprintf("setoption name Threads value %d", e.cfg.Threads)
				e.input <- fmt.Sprintf("setoption name Hash value %d", e.cfg.Hash)
				e.input <- "setoption name UCI_AnalyseMode value true"
				e.input <- "isready"
			case "readyok":
				if sentNewGame {
					return nil
				}
				sentNewGame = true
				e.input <- "ucinewgame"
				e.input <- "isready"
			}
		case <-deadline.C:
			return fmt.Errorf("engine '%s': no uciok within 30s", e.cfg.Path)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Evaluate runs a fixed-depth search on the given position and returns the
// deepest principal-variation eval. The returned scores are relative to the
// side to move.
func (e *Engine) Evaluate(ctx context.Context, fenPos string, depth int) (Eval, error) {
	e.input <- fmt.Sprintf("position fen %s", fenPos)
	e.input <- fmt.Sprintf("go depth %d", depth)

	var best Eval

	for {
		select {
		case line := <-e.output:
			if strings.HasPrefix(line, "bestmove") {
				parts := strings.Fields(line)
				if len(parts) > 1 && parts[1] == "(none)" {
					best.Mated = true
					best.UCIMove = ""
				} else if best.UCIMove == "" && len(parts) > 1 {
					best.UCIMove = parts[1]
				}
				return best, nil
			}

			if !strings.HasPrefix(line, "info") || !strings.Contains(line, "score") {
				continue
			}

			eval, err := parseEval(line)
			if err != nil {
				e.log.Debug().Err(err).Str("line", line).Msg("skipping info line")
				continue
			}

			if eval.UpperBound || eval.LowerBound || eval.MultiPV > 1 {
				continue
			}

			if eval.Depth >= best.Depth {
				best = eval
			}

		case <-ctx.Done():
			e.input <- "stop"
			return Eval{}, ctx.Err()
		}
	}
}

// Close releases the engine process. Best effort; safe to call on an engine
// that never started.
func (e *Engine) Close() {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	if !e.started {
		if e.cancel != nil {
			e.cancel()
		}
		return
	}

	select {
	case e.input <- "quit":
	default:
	}

	time.Sleep(50 * time.Millisecond)
	e.cancel()
	e.wg.Wait()
	e.started = false
}
