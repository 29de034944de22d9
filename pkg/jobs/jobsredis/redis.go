// Package jobsredis is the Redis backend of the extraction job queue. Job
// state lives in a string key per job, ready jobs in a list per queue and
// delayed retries in a sorted set per queue scored by due time.
package jobsredis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Abraxas-365/docextract/pkg/extract"
	"github.com/Abraxas-365/docextract/pkg/jobs"
)

// DefaultTTL is how long finished job records are kept.
const DefaultTTL = 7 * 24 * time.Hour

// RedisQueue implements jobs.Queue backed by Redis.
type RedisQueue struct {
	rdb       *redis.Client
	namespace string
	ttl       time.Duration
}

// NewRedisQueue creates a queue whose keys start with namespace.
func NewRedisQueue(rdb *redis.Client, namespace string) *RedisQueue {
	if namespace == "" {
		namespace = "docextract"
	}
	return &RedisQueue{rdb: rdb, namespace: namespace, ttl: DefaultTTL}
}

func (q *RedisQueue) queueKey(name string) string     { return fmt.Sprintf("%s:queue:%s", q.namespace, name) }
func (q *RedisQueue) scheduledKey(name string) string { return fmt.Sprintf("%s:scheduled:%s", q.namespace, name) }
func (q *RedisQueue) jobKey(id string) string         { return fmt.Sprintf("%s:job:%s", q.namespace, id) }

// Enqueue stores the job and pushes it onto its ready queue.
func (q *RedisQueue) Enqueue(ctx context.Context, sub jobs.Submission) (string, error) {
	now := time.Now().UTC()
	job := jobs.Job{
		ID:         uuid.NewString(),
		Submission: sub,
		Status:     jobs.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	data, err := json.Marshal(job)
	if err != nil {
		return "", redisErrors.NewWithCause(ErrMarshal, err)
	}

	pipe := q.rdb.TxPipeline()
	pipe.Set(ctx, q.jobKey(job.ID), data, 0)
	pipe.LPush(ctx, q.queueKey(sub.Queue), job.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", redisErrors.NewWithCause(ErrEnqueue, err).WithDetail("queue", sub.Queue)
	}
	return job.ID, nil
}

// GetJob retrieves job state by ID.
func (q *RedisQueue) GetJob(ctx context.Context, jobID string) (*jobs.Job, error) {
	data, err := q.rdb.Get(ctx, q.jobKey(jobID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, jobs.NotFound(jobID)
		}
		return nil, redisErrors.NewWithCause(ErrGetJob, err).WithDetail("job_id", jobID)
	}

	var job jobs.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, redisErrors.NewWithCause(ErrUnmarshal, err).WithDetail("job_id", jobID)
	}
	return &job, nil
}

// Dequeue blocks until a job is available on one of queues or timeout
// expires. A timeout returns (nil, nil).
func (q *RedisQueue) Dequeue(ctx context.Context, queues []string, timeout time.Duration) (*jobs.Job, error) {
	keys := make([]string, len(queues))
	for i, name := range queues {
		keys[i] = q.queueKey(name)
	}

	result, err := q.rdb.BRPop(ctx, timeout, keys...).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) || ctx.Err() != nil {
			return nil, nil
		}
		return nil, redisErrors.NewWithCause(ErrDequeue, err)
	}

	// result[0] = key, result[1] = job ID
	job, err := q.GetJob(ctx, result[1])
	if err != nil {
		return nil, err
	}

	job.Status = jobs.StatusActive
	job.Attempts++
	if err := q.save(ctx, job, 0); err != nil {
		return nil, err
	}
	return job, nil
}

// Complete stores the aggregate and marks the job completed.
func (q *RedisQueue) Complete(ctx context.Context, jobID string, result extract.Aggregate) error {
	job, err := q.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	job.Status = jobs.StatusCompleted
	job.Result = &result
	job.Error = ""
	return q.save(ctx, job, q.ttl)
}

// Fail records errMsg. It returns true while attempts remain.
func (q *RedisQueue) Fail(ctx context.Context, jobID string, errMsg string) (bool, error) {
	job, err := q.GetJob(ctx, jobID)
	if err != nil {
		return false, err
	}

	retry := job.Attempts < job.Submission.MaxRetries
	ttl := time.Duration(0)
	if retry {
		job.Status = jobs.StatusRetrying
	} else {
		job.Status = jobs.StatusFailed
		ttl = q.ttl
	}
	job.Error = errMsg

	if err := q.save(ctx, job, ttl); err != nil {
		return false, err
	}
	return retry, nil
}

// Retry schedules the job to return to its queue after delay.
func (q *RedisQueue) Retry(ctx context.Context, jobID string, delay time.Duration) error {
	job, err := q.GetJob(ctx, jobID)
	if err != nil {
		return err
	}

	score := float64(time.Now().UTC().Add(delay).Unix())
	if err := q.rdb.ZAdd(ctx, q.scheduledKey(job.Submission.Queue), redis.Z{
		Score:  score,
		Member: jobID,
	}).Err(); err != nil {
		return redisErrors.NewWithCause(ErrRetry, err).WithDetail("job_id", jobID)
	}
	return nil
}

// promoteScript moves due job IDs from the scheduled set to the ready list
// atomically.
var promoteScript = redis.NewScript(`
local scheduled_key = KEYS[1]
local queue_key = KEYS[2]
local now = tonumber(ARGV[1])
local ids = redis.call('ZRANGEBYSCORE', scheduled_key, '-inf', now)
if #ids > 0 then
    for _, id in ipairs(ids) do
        redis.call('LPUSH', queue_key, id)
    end
    redis.call('ZREMRANGEBYSCORE', scheduled_key, '-inf', now)
end
return #ids
`)

// PromoteScheduled moves due retries back onto their ready queues.
func (q *RedisQueue) PromoteScheduled(ctx context.Context, queues []string) error {
	now := strconv.FormatInt(time.Now().UTC().Unix(), 10)

	for _, name := range queues {
		err := promoteScript.Run(ctx, q.rdb,
			[]string{q.scheduledKey(name), q.queueKey(name)},
			now,
		).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			return redisErrors.NewWithCause(ErrPromote, err).WithDetail("queue", name)
		}
	}
	return nil
}

func (q *RedisQueue) save(ctx context.Context, job *jobs.Job, ttl time.Duration) error {
	job.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(job)
	if err != nil {
		return redisErrors.NewWithCause(ErrMarshal, err).WithDetail("job_id", job.ID)
	}
	if err := q.rdb.Set(ctx, q.jobKey(job.ID), data, ttl).Err(); err != nil {
		return redisErrors.NewWithCause(ErrUpdate, err).WithDetail("job_id", job.ID)
	}
	return nil
}
