package loadgen

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/okian/podium/pkg/logger"
)

// Run generates submissions, posts them concurrently, and logs a
// summary of accepted/rejected/failed counts plus the final board size.
func Run(ctx context.Context, cfg *Config) error {
	if cfg.Submissions < 1 || cfg.Workers < 1 {
		return pkgerrors.New("submissions and workers must be positive")
	}
	if cfg.MaxScore < cfg.MinScore {
		return pkgerrors.New("max score must not be below min score")
	}

	log := logger.Get().Named("loadgen")
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting load run",
		logger.String("base_url", cfg.BaseURL),
		logger.String("table", cfg.Table),
		logger.Int("submissions", cfg.Submissions),
		logger.Int("workers", cfg.Workers),
		logger.Bool("with_proof", cfg.ProofSalt != ""),
	)

	subs := generateSubmissions(cfg)
	stats.Generated = len(subs)

	cl := newClient(cfg.Timeout)
	saveURL := cfg.BaseURL + "/highscore/save/" + cfg.Table

	jobs := make(chan Submission)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sub := range jobs {
				board, status, err := cl.submit(ctx, saveURL, sub)
				switch {
				case err != nil || status != http.StatusOK:
					atomic.AddInt64(&stats.Failed, 1)
					if err != nil {
						log.Debug(ctx, "submission failed", logger.Error(err))
					} else {
						log.Debug(ctx, "submission failed", logger.Int("status", status))
					}
				case boardContains(board, sub):
					atomic.AddInt64(&stats.Accepted, 1)
				default:
					atomic.AddInt64(&stats.Rejected, 1)
				}
			}
		}()
	}

	for _, sub := range subs {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return pkgerrors.Wrap(ctx.Err(), "load run canceled")
		case jobs <- sub:
		}
	}
	close(jobs)
	wg.Wait()

	board, err := cl.getBoard(ctx, cfg.BaseURL+"/highscore/"+cfg.Table)
	if err != nil {
		return pkgerrors.Wrap(err, "fetch final board failed")
	}
	stats.BoardSize = len(board.Highscores)

	log.Info(ctx, "load run finished",
		logger.Int("generated", stats.Generated),
		logger.Int64("accepted", stats.Accepted),
		logger.Int64("rejected", stats.Rejected),
		logger.Int64("failed", stats.Failed),
		logger.Int("board_size", stats.BoardSize),
		logger.String("elapsed", time.Since(stats.StartTime).String()),
	)
	return nil
}

// boardContains reports whether the returned board retained the
// submission. Acceptance is inferred; the service reports rejection
// only through the unchanged board.
func boardContains(board *boardResponse, sub Submission) bool {
	for _, row := range board.Highscores {
		if row.Name == sub.Name && row.Score == sub.Score {
			return true
		}
	}
	return false
}
