// Package book loads YAML opening books keyed by FEN. A position found in
// the book means the move played from it is opening theory.
package book

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Included lists the book names that ship with the books directory. Anything
// else passed to Resolve is treated as a path.
var Included = []string{
	"Human",
	"Titans",
	"baron30",
	"varied",
	"Performance",
	"Book",
	"DCbook_large",
	"Elo2400",
	"KomodoVariety",
	"codekiddy",
	"final-book",
	"gavibook-small",
	"gavibook",
	"gm2600",
	"komodo",
}

// Position is one book entry: a FEN (move clocks optional, ignored) and the
// known theory moves from it in SAN.
type Position struct {
	FEN   string   `yaml:"fen"`
	Moves []string `yaml:"moves,omitempty"`
}

type Book struct {
	Positions []*Position

	posMap   map[string]*Position
	filename string
}

// Load reads a YAML book file.
func Load(filename string) (*Book, error) {
	book := Book{
		posMap:   make(map[string]*Position),
		filename: filename,
	}

	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", filename, err)
	}

	if err := yaml.Unmarshal(b, &book.Positions); err != nil {
		return nil, fmt.Errorf("'%s': %w", filename, err)
	}

	for _, pos := range book.Positions {
		book.posMap[Key(pos.FEN)] = pos
	}

	return &book, nil
}

// Contains reports whether the position is known theory.
func (b *Book) Contains(fenPos string) bool {
	if b == nil || b.posMap == nil {
		return false
	}

	_, ok := b.posMap[Key(fenPos)]
	return ok
}

// Moves returns the theory moves for a position, if any.
func (b *Book) Moves(fenPos string) ([]string, bool) {
	if b == nil || b.posMap == nil {
		return nil, false
	}

	pos, ok := b.posMap[Key(fenPos)]
	if !ok || len(pos.Moves) == 0 {
		return nil, false
	}
	return pos.Moves, true
}

func (b *Book) PosCount() int {
	return len(b.posMap)
}

// Key strips the halfmove clock and move number from a FEN so transpositions
// with different clocks hit the same entry.
func Key(fenPos string) string {
	parts := strings.Fields(fenPos)
	if len(parts) > 4 {
		parts = parts[:4]
	}
	return strings.Join(parts, " ")
}

// Resolve maps a --book argument to a file path: included names resolve to
// booksDir, anything else is taken as a path.
func Resolve(nameOrPath, booksDir string) string {
	for _, name := range Included {
		if nameOrPath == name {
			return filepath.Join(booksDir, name+".yaml")
		}
	}
	return nameOrPath
}
