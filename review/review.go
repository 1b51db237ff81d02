package review

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"
)

// BookSource answers whether a position is known opening theory. Keys are
// FENs; implementations decide how much of the FEN they consider.
type BookSource interface {
	Contains(fenPos string) bool
}

// TablebaseSource resolves a low-piece position to its provably optimal move
// set. A nil result with nil error means the position is not covered.
type TablebaseSource interface {
	Probe(ctx context.Context, fenPos string) (*TablebaseVerdict, error)
}

// MoveRecord is one fully classified move, emitted to the sink as soon as it
// is graded. Immutable after creation.
type MoveRecord struct {
	Ply         int // 1-based
	Color       chess.Color
	SAN         string
	UCI         string
	ScoreBefore *int // white POV centipawns, nil = no usable eval
	ScoreAfter  *int
	BestSAN     string
	Depth       int
	Label       Label
	FEN         string // position after the move
}

// GameMeta is the match header shown before analysis starts.
type GameMeta struct {
	White       string
	Black       string
	WhiteElo    string
	BlackElo    string
	TimeControl string
	Termination string
	TotalMoves  int
}

// Sink receives the classification stream. Implementations render it; the
// loop itself never touches the terminal.
type Sink interface {
	Header(meta GameMeta)
	Move(rec MoveRecord)
	Summary(white, black *Tally)
}

// Options configures one match analysis.
type Options struct {
	Depth     int
	Book      BookSource      // nil disables Book labels
	Tablebase TablebaseSource // nil disables Tablebase labels
	Logger    zerolog.Logger
}

// tablebaseMaxPieces is the piece-count ceiling for tablebase probes.
const tablebaseMaxPieces = 5

// Result is what a match analysis produces: per-player tallies and the
// records in game order.
type Result struct {
	White   *Tally
	Black   *Tally
	Records []MoveRecord
}

// Review analyzes every mainline move of game in order, classifying each and
// updating the acting player's tally. It stops between moves when ctx is
// cancelled and returns what it has; tallies are append-only so a partial
// result is always consistent.
func Review(ctx context.Context, game *chess.Game, ev Evaluator, opts Options, sink Sink) (*Result, error) {
	if opts.Depth <= 0 {
		opts.Depth = 15
	}

	res := &Result{
		White: NewTally(),
		Black: NewTally(),
	}

	moves := game.Moves()
	positions := game.Positions()

	if sink != nil {
		sink.Header(MetaFromGame(game))
	}

	// eval of the position each move is played from; carried across
	// iterations so every position is searched once
	var preEval *Eval

	for i, move := range moves {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		pos := positions[i]
		after := positions[i+1]
		ply := i + 1
		color := pos.Turn()

		if preEval == nil || preEval.Empty() {
			e, err := ev.Evaluate(ctx, pos.String(), opts.Depth)
			if err != nil {
				if ctx.Err() != nil {
					return res, ctx.Err()
				}
				opts.Logger.Warn().Err(err).Int("ply", ply).Msg("evaluator failed, move left unclassified")
				e = Eval{}
			}
			preEval = &e
		}

		afterEval, err := ev.Evaluate(ctx, after.String(), opts.Depth)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			opts.Logger.Warn().Err(err).Int("ply", ply).Msg("evaluator failed, move left unclassified")
			afterEval = Eval{}
		}
		opts.Logger.Debug().Int("ply", ply).Str("eval", afterEval.String(after.Turn())).Str("stats", afterEval.Stats()).Msg("position evaluated")

		in := MoveInput{
			Ply:         ply,
			Color:       color,
			UCI:         move.String(),
			BestUCI:     preEval.UCIMove,
			ScoreBefore: globalScore(*preEval, color),
			ScoreAfter:  globalScore(afterEval, after.Turn()),
			LegalMoves:  len(pos.ValidMoves()),
			InBook:      inBook(opts.Book, pos),
			Tablebase:   probeTablebase(ctx, opts, pos),
			ProbeBest:   probeBestFunc(ev, pos, preEval.UCIMove, opts.Depth),
		}

		label := Classify(ctx, in)

		rec := MoveRecord{
			Ply:         ply,
			Color:       color,
			SAN:         chess.AlgebraicNotation{}.Encode(pos, move),
			UCI:         in.UCI,
			ScoreBefore: in.ScoreBefore,
			ScoreAfter:  in.ScoreAfter,
			BestSAN:     bestSAN(pos, preEval.UCIMove),
			Depth:       preEval.Depth,
			Label:       label,
			FEN:         after.String(),
		}

		if color == chess.White {
			res.White.Add(label)
		} else {
			res.Black.Add(label)
		}
		res.Records = append(res.Records, rec)

		if sink != nil {
			sink.Move(rec)
		}

		preEval = &afterEval
	}

	if sink != nil {
		sink.Summary(res.White, res.Black)
	}

	return res, nil
}

func globalScore(e Eval, turn chess.Color) *int {
	if !e.HasCP() {
		return nil
	}
	cp := e.GlobalCP(turn)
	return &cp
}

func inBook(book BookSource, pos *chess.Position) bool {
	if book == nil {
		return false
	}
	return book.Contains(pos.String())
}

func probeTablebase(ctx context.Context, opts Options, pos *chess.Position) *TablebaseVerdict {
	if opts.Tablebase == nil {
		return nil
	}
	if len(pos.Board().SquareMap()) > tablebaseMaxPieces {
		return nil
	}

	verdict, err := opts.Tablebase.Probe(ctx, pos.String())
	if err != nil {
		// lookup unavailable, fall through to the next rule
		opts.Logger.Debug().Err(err).Msg("tablebase probe failed")
		return nil
	}
	return verdict
}

// probeBestFunc builds the classifier's one extra engine query: evaluate the
// position reached by playing the engine's best move.
func probeBestFunc(ev Evaluator, pos *chess.Position, bestUCI string, depth int) func(context.Context) (Eval, error) {
	if bestUCI == "" {
		return nil
	}

	return func(ctx context.Context) (Eval, error) {
		move, err := chess.UCINotation{}.Decode(pos, bestUCI)
		if err != nil {
			return Eval{}, fmt.Errorf("decode best move '%s': %w", bestUCI, err)
		}
		next := pos.Update(move)
		return ev.Evaluate(ctx, next.String(), depth)
	}
}

func bestSAN(pos *chess.Position, bestUCI string) string {
	if bestUCI == "" {
		return "-"
	}
	move, err := chess.UCINotation{}.Decode(pos, bestUCI)
	if err != nil {
		return bestUCI
	}
	return chess.AlgebraicNotation{}.Encode(pos, move)
}

// MetaFromGame pulls the header fields out of the game's PGN tags.
func MetaFromGame(game *chess.Game) GameMeta {
	tag := func(key string) string {
		if tp := game.GetTagPair(key); tp != nil && tp.Value != "" {
			return tp.Value
		}
		return "Unknown"
	}

	meta := GameMeta{
		White:       tag("White"),
		Black:       tag("Black"),
		WhiteElo:    tag("WhiteElo"),
		BlackElo:    tag("BlackElo"),
		TimeControl: tag("TimeControl"),
		Termination: tag("Termination"),
		TotalMoves:  len(game.Moves()) / 2,
	}
	if meta.WhiteElo == "Unknown" {
		meta.WhiteElo = "N/A"
	}
	if meta.BlackElo == "Unknown" {
		meta.BlackElo = "N/A"
	}
	return meta
}

// GameType buckets a PGN TimeControl tag ("300+2") by its base time.
func GameType(timeControl string) string {
	base := strings.SplitN(timeControl, "+", 2)[0]
	seconds, err := strconv.Atoi(base)
	if err != nil {
		return "Unknown"
	}

	switch {
	case seconds < 180:
		return "Bullet"
	case seconds < 600:
		return "Blitz"
	case seconds < 1800:
		return "Rapid"
	default:
		return "Classical"
	}
}
