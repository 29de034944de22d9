package jobsredis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Abraxas-365/docextract/pkg/errx"
	"github.com/Abraxas-365/docextract/pkg/extract"
	"github.com/Abraxas-365/docextract/pkg/jobs"
)

// newTestQueue connects to REDIS_TEST_ADDR and skips when it is unset.
func newTestQueue(t *testing.T) *RedisQueue {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	ns := "docextract-test-" + time.Now().Format("150405.000000")
	t.Cleanup(func() {
		ctx := context.Background()
		keys, _ := rdb.Keys(ctx, ns+":*").Result()
		if len(keys) > 0 {
			rdb.Del(ctx, keys...)
		}
		rdb.Close()
	})
	return NewRedisQueue(rdb, ns)
}

func TestKeysAreNamespaced(t *testing.T) {
	q := NewRedisQueue(nil, "")
	if got := q.queueKey("extractions"); got != "docextract:queue:extractions" {
		t.Fatalf("queueKey = %q", got)
	}
	if got := q.jobKey("abc"); got != "docextract:job:abc" {
		t.Fatalf("jobKey = %q", got)
	}
}

func TestQueueLifecycle(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	id, err := q.Enqueue(ctx, jobs.Submission{
		Queue:      jobs.DefaultQueue,
		SourceKey:  "uploads/a.png",
		Mode:       extract.ModeAll,
		MaxRetries: 2,
	})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	job, err := q.Dequeue(ctx, []string{jobs.DefaultQueue}, time.Second)
	if err != nil || job == nil || job.ID != id {
		t.Fatalf("Dequeue = %+v, %v", job, err)
	}
	if job.Status != jobs.StatusActive || job.Attempts != 1 {
		t.Fatalf("dequeued job = %+v", job)
	}

	retry, err := q.Fail(ctx, id, "boom")
	if err != nil || !retry {
		t.Fatalf("Fail = %v, %v", retry, err)
	}
	if err := q.Retry(ctx, id, 0); err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if err := q.PromoteScheduled(ctx, []string{jobs.DefaultQueue}); err != nil {
		t.Fatalf("PromoteScheduled: %v", err)
	}

	job, err = q.Dequeue(ctx, []string{jobs.DefaultQueue}, time.Second)
	if err != nil || job == nil || job.Attempts != 2 {
		t.Fatalf("second Dequeue = %+v, %v", job, err)
	}

	if err := q.Complete(ctx, id, extract.Aggregate{RunID: "r", PageCount: 1}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	got, err := q.GetJob(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != jobs.StatusCompleted || got.Result == nil || got.Result.RunID != "r" {
		t.Fatalf("completed job = %+v", got)
	}
}

func TestGetJobNotFound(t *testing.T) {
	q := newTestQueue(t)
	_, err := q.GetJob(context.Background(), "missing")
	if !errx.HasCode(err, jobs.ErrJobNotFound) {
		t.Fatalf("expected JOB_NOT_FOUND, got %v", err)
	}
}
