package tasks

import (
	"github.com/brandon99-hub/Medibridge2/redis"
)

const JobsDB redis.DB = 1

type JobTask struct {
	UserCanceled           bool `json:"user_canceled"`
	StopDocumentsOnFailure bool `json:"stop_documents_on_failure"`
}

type JobTasks struct {
	client redis.Client
}

func (tasks JobTasks) GetCached(redisKey string) (*JobTask, error) {
	var task JobTask
	key := cachedPropertiesKey(redisKey)
	if _, err := tasks.client.GetDocument(key, &task); err != nil {
		return nil, err
	}
	return &task, nil
}
