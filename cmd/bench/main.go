package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/sync/errgroup"
)

var json = jsoniter.ConfigFastest

type options struct {
	baseURL     string
	tables      int
	rounds      int
	bet         float64
	turbo       bool
	buy         bool
	concurrency int
	poll        time.Duration
	timeout     time.Duration
	keep        bool
}

type game struct {
	GameID  int64     `json:"gameId"`
	Name    string    `json:"name"`
	BetSize []float64 `json:"betSize"`
}

type snapshot struct {
	TableID  string `json:"tableId"`
	GameID   int64  `json:"gameId"`
	State    string `json:"state"`
	Disabled bool   `json:"disabled"`
	Rounds   int64  `json:"rounds"`
}

type commandReply struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type apiError struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type result struct {
	gameID   int64
	rounds   int64
	disabled bool
	elapsed  time.Duration
}

func main() {
	opts := options{}
	flag.StringVar(&opts.baseURL, "base-url", "http://127.0.0.1:8001", "")
	flag.IntVar(&opts.tables, "tables", 20, "tables per game")
	flag.IntVar(&opts.rounds, "rounds", 200, "autoplay rounds per table")
	flag.Float64Var(&opts.bet, "bet", 1, "fallback bet when the game has no bet sizes")
	flag.BoolVar(&opts.turbo, "turbo", true, "")
	flag.BoolVar(&opts.buy, "buy", false, "buy a feature once per table before autoplay")
	flag.IntVar(&opts.concurrency, "concurrency", 16, "")
	flag.DurationVar(&opts.poll, "poll", time.Second, "snapshot poll interval")
	flag.DurationVar(&opts.timeout, "timeout", 30*time.Minute, "")
	flag.BoolVar(&opts.keep, "keep", false, "keep tables after finishing")
	flag.Parse()
	if opts.concurrency < 1 {
		opts.concurrency = 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	c := &client{base: strings.TrimRight(opts.baseURL, "/"), http: &http.Client{Timeout: 30 * time.Second}}

	var list struct {
		Games []game `json:"games"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/games", nil, &list); err != nil {
		fmt.Printf("list games failed: %v\n", err)
		return
	}
	games := list.Games
	if len(games) == 0 {
		fmt.Println("no games found")
		return
	}

	start := time.Now()
	var finished, failed atomic.Int64
	results := make(chan result, len(games)*opts.tables)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.concurrency)
	for _, gm := range games {
		for i := 0; i < opts.tables; i++ {
			g.Go(func() error {
				r, err := runTable(gctx, c, gm, opts)
				if err != nil {
					failed.Add(1)
					fmt.Printf("game %d table failed: %v\n", gm.GameID, err)
					return nil
				}
				if n := finished.Add(1); n%10 == 0 {
					fmt.Printf("%d tables finished, %s elapsed\n", n, time.Since(start).Truncate(time.Second))
				}
				results <- r
				return nil
			})
		}
	}
	_ = g.Wait()
	close(results)

	report(results, failed.Load(), time.Since(start))
	printRounds(ctx, c)
}

// runTable 开桌 -> 自动转 -> 轮询到局数达标或桌子被禁用 -> 关桌
func runTable(ctx context.Context, c *client, gm game, opts options) (result, error) {
	start := time.Now()
	body := map[string]any{
		"gameId":   gm.GameID,
		"bet":      pickBet(gm.BetSize, opts.bet),
		"turbo":    opts.turbo,
		"autoplay": !opts.buy,
		"rounds":   opts.rounds,
	}
	var snap snapshot
	if err := c.do(ctx, http.MethodPost, "/v1/tables", body, &snap); err != nil {
		return result{}, err
	}
	id := snap.TableID
	if !opts.keep {
		defer func() {
			_ = c.do(context.Background(), http.MethodDelete, "/v1/tables/"+id, nil, nil)
		}()
	}

	if opts.buy {
		if err := c.command(ctx, id, "buy", nil); err != nil {
			return result{}, err
		}
		if err := c.command(ctx, id, "autoplay", map[string]any{"on": true, "rounds": opts.rounds}); err != nil {
			return result{}, err
		}
	}

	ticker := time.NewTicker(opts.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return result{}, ctx.Err()
		case <-ticker.C:
		}
		if err := c.do(ctx, http.MethodGet, "/v1/tables/"+id, nil, &snap); err != nil {
			return result{}, err
		}
		if snap.Disabled || snap.Rounds >= int64(opts.rounds) {
			return result{
				gameID:   gm.GameID,
				rounds:   snap.Rounds,
				disabled: snap.Disabled,
				elapsed:  time.Since(start),
			}, nil
		}
	}
}

func pickBet(sizes []float64, fallback float64) float64 {
	if len(sizes) >= 2 {
		return sizes[1]
	}
	if len(sizes) == 1 {
		return sizes[0]
	}
	return fallback
}

func report(results <-chan result, failed int64, elapsed time.Duration) {
	type agg struct {
		tables, disabled int
		rounds           int64
		slowest          time.Duration
	}
	byGame := make(map[int64]*agg)
	for r := range results {
		a := byGame[r.gameID]
		if a == nil {
			a = &agg{}
			byGame[r.gameID] = a
		}
		a.tables++
		a.rounds += r.rounds
		if r.disabled {
			a.disabled++
		}
		if r.elapsed > a.slowest {
			a.slowest = r.elapsed
		}
	}
	ids := make([]int64, 0, len(byGame))
	for id := range byGame {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	fmt.Printf("\n%-8s %8s %10s %9s %10s\n", "game", "tables", "rounds", "disabled", "slowest")
	for _, id := range ids {
		a := byGame[id]
		fmt.Printf("%-8d %8d %10d %9d %10s\n", id, a.tables, a.rounds, a.disabled, a.slowest.Truncate(time.Millisecond))
	}
	fmt.Printf("failed=%d elapsed=%s\n", failed, elapsed.Truncate(time.Millisecond))
}

func printRounds(ctx context.Context, c *client) {
	var out struct {
		Summary struct {
			Rounds   int64   `json:"rounds"`
			Fatal    int64   `json:"fatal"`
			TotalBet string  `json:"totalBet"`
			TotalWin string  `json:"totalWin"`
			RtpPct   float64 `json:"rtpPct"`
		} `json:"summary"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/rounds?limit=5000", nil, &out); err != nil {
		fmt.Printf("round history unavailable: %v\n", err)
		return
	}
	s := out.Summary
	fmt.Printf("history rounds=%d fatal=%d bet=%s win=%s rtp=%.2f%%\n", s.Rounds, s.Fatal, s.TotalBet, s.TotalWin, s.RtpPct)
}

type client struct {
	base string
	http *http.Client
}

// command 业务拒绝（code!=0）同样视为失败
func (c *client) command(ctx context.Context, id, op string, body any) error {
	var reply commandReply
	if err := c.do(ctx, http.MethodPost, "/v1/tables/"+id+"/"+op, body, &reply); err != nil {
		return err
	}
	if reply.Code != 0 {
		return fmt.Errorf("%s rejected: %d %s", op, reply.Code, reply.Message)
	}
	return nil
}

func (c *client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e apiError
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&e)
		return fmt.Errorf("%s %s: status %d %s", method, path, resp.StatusCode, e.Reason)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
