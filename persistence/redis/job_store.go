package redis

import (
	"context"
	"errors"

	"github.com/Rafsilva0/demo-automation/config"
	"github.com/Rafsilva0/demo-automation/model"
	"github.com/Rafsilva0/demo-automation/persistence"
	"github.com/Rafsilva0/demo-automation/util"
	rd "github.com/go-redis/redis/v9"
)

const JOB_KEY string = "JOB"
const JOB_INDEX_KEY string = "JOBS"

var _ persistence.JobStore = new(redisJobStore)

type redisJobStore struct {
	*baseDao
	encoderDecoder util.EncoderDecoder[model.JobStatus]
}

func NewJobStore(conf config.RedisStorageConfig) *redisJobStore {
	return &redisJobStore{
		baseDao:        newBaseDao(conf),
		encoderDecoder: util.NewJsonEncoderDecoder[model.JobStatus](),
	}
}

// Save writes the job body and refreshes its slot in the recency index
// in one transaction.
func (r *redisJobStore) Save(job *model.JobStatus) error {
	key := r.getNamespaceKey(JOB_KEY, job.JobId)
	indexKey := r.getNamespaceKey(JOB_INDEX_KEY)
	ctx := context.Background()
	data, err := r.encoderDecoder.Encode(*job)
	if err != nil {
		return err
	}
	_, err = r.redisClient.TxPipelined(ctx, func(pipe rd.Pipeliner) error {
		if err := pipe.Set(ctx, key, string(data), 0).Err(); err != nil {
			return err
		}
		return pipe.ZAdd(ctx, indexKey, rd.Z{
			Score:  float64(job.CreatedAt.UnixMilli()),
			Member: job.JobId,
		}).Err()
	})
	if err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (r *redisJobStore) Get(jobId string) (*model.JobStatus, error) {
	key := r.getNamespaceKey(JOB_KEY, jobId)
	ctx := context.Background()
	jobStr, err := r.redisClient.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, rd.Nil) {
			return nil, persistence.JobNotFoundError{JobId: jobId}
		}
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return r.encoderDecoder.Decode([]byte(jobStr))
}

// List returns the most recent jobs first. Index entries whose body has
// expired or been deleted are skipped.
func (r *redisJobStore) List(limit int) ([]*model.JobStatus, error) {
	indexKey := r.getNamespaceKey(JOB_INDEX_KEY)
	ctx := context.Background()
	if limit <= 0 {
		limit = 100
	}
	ids, err := r.redisClient.ZRevRange(ctx, indexKey, 0, int64(limit-1)).Result()
	if err != nil {
		if errors.Is(err, rd.Nil) {
			return []*model.JobStatus{}, nil
		}
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	jobs := make([]*model.JobStatus, 0, len(ids))
	for _, id := range ids {
		job, err := r.Get(id)
		if err != nil {
			var notFound persistence.JobNotFoundError
			if errors.As(err, &notFound) {
				continue
			}
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (r *redisJobStore) Delete(jobId string) error {
	key := r.getNamespaceKey(JOB_KEY, jobId)
	indexKey := r.getNamespaceKey(JOB_INDEX_KEY)
	ctx := context.Background()
	deleted, err := r.redisClient.Del(ctx, key).Result()
	if err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	if deleted == 0 {
		return persistence.JobNotFoundError{JobId: jobId}
	}
	if err := r.redisClient.ZRem(ctx, indexKey, jobId).Err(); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}
