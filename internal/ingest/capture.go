package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"tickbench/internal/tick"
)

const defaultStreamURL = "wss://stream.binance.com:9443/stream"

type tradeEnvelope struct {
	Stream string    `json:"stream"`
	Data   tradeData `json:"data"`
}

type tradeData struct {
	Price     string `json:"p"`
	Quantity  string `json:"q"`
	TradeTime int64  `json:"T"`
}

// Capture records a bounded number of live trade ticks from a combined
// trade websocket stream, for use as replayable benchmark fixtures.
type Capture struct {
	baseURL  string
	symbols  []string
	maxTicks int
	log      zerolog.Logger
}

// NewCapture builds a capture session for the given symbols.
func NewCapture(baseURL string, symbols []string, maxTicks int, log zerolog.Logger) *Capture {
	if baseURL == "" {
		baseURL = defaultStreamURL
	}
	return &Capture{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		symbols:  symbols,
		maxTicks: maxTicks,
		log:      log,
	}
}

// Run captures up to maxTicks trades, reconnecting with backoff on stream
// errors, and returns them in arrival order.
func (c *Capture) Run(ctx context.Context) ([]tick.Tick, error) {
	if len(c.symbols) == 0 {
		return nil, fmt.Errorf("capture requires at least one symbol")
	}
	if c.maxTicks <= 0 {
		return nil, fmt.Errorf("capture requires a positive tick budget")
	}

	streams := make([]string, len(c.symbols))
	for i, sym := range c.symbols {
		streams[i] = strings.ToLower(sym) + "@trade"
	}
	url := fmt.Sprintf("%s?streams=%s", c.baseURL, strings.Join(streams, "/"))

	ticks := make([]tick.Tick, 0, c.maxTicks)
	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for len(ticks) < c.maxTicks {
		if ctx.Err() != nil {
			return ticks, ctx.Err()
		}
		if err := c.consumeStream(ctx, url, &ticks); err != nil {
			if ctx.Err() != nil {
				return ticks, ctx.Err()
			}
			if len(ticks) >= c.maxTicks {
				break
			}
			c.log.Warn().Err(err).Msg("capture stream disconnected, retrying")
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ticks, ctx.Err()
			}
			backoff = time.Duration(math.Min(float64(maxBackoff), float64(backoff)*1.8))
		}
	}
	return ticks, nil
}

func (c *Capture) consumeStream(ctx context.Context, url string, ticks *[]tick.Tick) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	c.log.Info().Strs("symbols", c.symbols).Int("budget", c.maxTicks).Msg("connected capture stream")

	conn.SetReadLimit(1 << 20)
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		return nil
	})

	pingCtx, pingCancel := context.WithCancel(ctx)
	defer pingCancel()
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					c.log.Warn().Err(err).Msg("capture ping failed")
					return
				}
			case <-pingCtx.Done():
				return
			}
		}
	}()

	for len(*ticks) < c.maxTicks {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		tk, err := decodeTrade(message)
		if err != nil {
			c.log.Warn().Err(err).Msg("skipping undecodable trade message")
			continue
		}
		*ticks = append(*ticks, tk)
	}
	return nil
}

func decodeTrade(message []byte) (tick.Tick, error) {
	var env tradeEnvelope
	if err := json.Unmarshal(message, &env); err != nil {
		return tick.Tick{}, err
	}
	price, err := strconv.ParseFloat(env.Data.Price, 64)
	if err != nil {
		return tick.Tick{}, fmt.Errorf("invalid price %q", env.Data.Price)
	}
	qty, err := strconv.ParseFloat(env.Data.Quantity, 64)
	if err != nil {
		return tick.Tick{}, fmt.Errorf("invalid quantity %q", env.Data.Quantity)
	}
	return tick.Tick{
		Symbol: parseStreamSymbol(env.Stream),
		Price:  price,
		Volume: int64(math.Round(qty)),
		Ts:     time.UnixMilli(env.Data.TradeTime),
	}, nil
}

func parseStreamSymbol(stream string) string {
	parts := strings.Split(stream, "@")
	if len(parts) == 0 || parts[0] == "" {
		return strings.ToUpper(stream)
	}
	return strings.ToUpper(parts[0])
}
