package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/cardapiohub/cardapio-backend/pkg/logger"
)

func TestCartRetentionJobUsesCutoff(t *testing.T) {
	now := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	repo := &fakeCartPruner{deletedRows: 7}
	job := newCartRetentionJob(t, repo, 48*time.Hour)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if expected := now.Add(-48 * time.Hour); !repo.lastCutoff.Equal(expected) {
		t.Fatalf("expected cutoff %s, got %s", expected, repo.lastCutoff)
	}
	if repo.called != 1 {
		t.Fatalf("expected repo called once, got %d", repo.called)
	}
}

func TestCartRetentionJobDefaultsRetention(t *testing.T) {
	job := newCartRetentionJob(t, &fakeCartPruner{}, 0)
	if job.retention != defaultCartRetention {
		t.Fatalf("expected default retention, got %s", job.retention)
	}
}

func TestCartRetentionJobPropagatesErrors(t *testing.T) {
	job := newCartRetentionJob(t, &fakeCartPruner{err: errors.New("boom")}, time.Hour)
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func newCartRetentionJob(t *testing.T, repo *fakeCartPruner, retention time.Duration) *cartRetentionJob {
	t.Helper()
	jobIface, err := NewCartRetentionJob(CartRetentionJobParams{
		Logger:     logger.Nop(),
		DB:         fakeTxRunner{},
		Repository: repo,
		Retention:  retention,
	})
	if err != nil {
		t.Fatalf("NewCartRetentionJob: %v", err)
	}
	job, ok := jobIface.(*cartRetentionJob)
	if !ok {
		t.Fatalf("expected cartRetentionJob, got %T", jobIface)
	}
	return job
}

type fakeCartPruner struct {
	lastCutoff  time.Time
	deletedRows int64
	err         error
	called      int
}

func (f *fakeCartPruner) DeleteOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	f.called++
	f.lastCutoff = cutoff
	if f.err != nil {
		return 0, f.err
	}
	return f.deletedRows, nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}
