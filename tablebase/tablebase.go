// Package tablebase probes the lichess endgame tablebase service for
// positions with few enough pieces, and reduces the response to the set of
// moves that preserve the position's proven outcome.
package tablebase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"gamereview/review"
)

const DefaultBaseURL = "https://tablebase.lichess.ovh"

// Move is one move from a tablebase response. Category is reported from the
// point of view of the side to move after the move.
type Move struct {
	UCI      string `json:"uci"`
	SAN      string `json:"san"`
	Category string `json:"category"`
	Zeroing  bool   `json:"zeroing"`
	DTZ      int    `json:"dtz"`
	DTM      int    `json:"dtm"`
}

// Result is a tablebase response for one position. Category is from the
// point of view of the side to move.
type Result struct {
	Category string `json:"category"`
	DTZ      int    `json:"dtz"`
	DTM      int    `json:"dtm"`
	Moves    []Move `json:"moves"`
}

type Client struct {
	baseURL string
	httpc   *http.Client
	log     zerolog.Logger
}

type ClientOption func(*Client)

func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) { c.log = log }
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup queries the standard-chess endpoint for a position.
func (c *Client) Lookup(ctx context.Context, fenPos string) (*Result, error) {
	u, err := url.Parse(c.baseURL + "/standard")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Add("fen", fenPos)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequest: '%s' %w", u.String(), err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tablebase request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("http status code %d body: '%s'", resp.StatusCode, b)
	}

	var result Result
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&result); err != nil {
		return nil, fmt.Errorf("tablebase decode: %w", err)
	}

	return &result, nil
}

// Probe implements review.TablebaseSource. A position whose outcome the
// tablebase cannot settle returns (nil, nil) so classification falls through.
func (c *Client) Probe(ctx context.Context, fenPos string) (*review.TablebaseVerdict, error) {
	result, err := c.Lookup(ctx, fenPos)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Str("fen", fenPos).Str("category", result.Category).Int("dtz", result.DTZ).Msg("tablebase lookup")

	outcome := normalize(result.Category)
	if outcome == "unknown" {
		return nil, nil
	}

	optimal := make(map[string]bool)
	for _, move := range result.Moves {
		// child categories are from the opponent's side; flip before
		// comparing with the parent outcome
		if flip(normalize(move.Category)) == outcome {
			optimal[move.UCI] = true
		}
	}

	if len(optimal) == 0 {
		return nil, nil
	}

	return &review.TablebaseVerdict{OptimalUCI: optimal}, nil
}

func normalize(category string) string {
	switch category {
	case "win", "cursed-win", "maybe-win":
		return "win"
	case "loss", "blessed-loss", "maybe-loss":
		return "loss"
	case "draw":
		return "draw"
	default:
		return "unknown"
	}
}

func flip(category string) string {
	switch category {
	case "win":
		return "loss"
	case "loss":
		return "win"
	default:
		return category
	}
}
