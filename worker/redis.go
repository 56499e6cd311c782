package worker

import (
	"github.com/brandon99-hub/Medibridge2/tasks"
	"fmt"
)

type redisTransactions interface {
	getChunkTask(redisKey string) (*tasks.ChunkTask, error)
	getJobTask(task *Task) (*tasks.JobTask, error)
	getDocTask(task *Task) (*tasks.DocumentTaskCached, error)
	onTaskStarted(task *Task) error
	onTaskCancelled(task *Task, errorMessages ...string) error
	onTaskExceededRetries(task *Task, maxRetries int) error
	onTaskFailedWithError(task *Task, err error) error
	onTaskComplete(task *Task) error
	close()
}

type redisClientWrapper struct {
	tasksClient *tasks.Client
}

func (wrapper *redisClientWrapper) close() {
	wrapper.tasksClient.Close()
}

func (wrapper *redisClientWrapper) onTaskStarted(task *Task) error {
	err := wrapper.tasksClient.Chunks.Update(task.redisKey, func(task *tasks.ChunkTask) {
		task.TaskStatuses.MedNLP.Status = tasks.TaskStatusStarted
		task.TaskStatuses.MedNLP.Attempts += 1
		task.TaskStatuses.MedNLP.StartedAt = getFormattedNow()
		task.TaskStatuses.MedNLP.CompletedAt = nil
	})
	return err
}

func (wrapper *redisClientWrapper) onTaskCancelled(task *Task, errorMessages ...string) error {
	err := wrapper.tasksClient.Chunks.Update(task.redisKey, func(chunkTask *tasks.ChunkTask) {
		chunkTask.TaskStatuses.MedNLP.Status = tasks.TaskStatusCanceled
		chunkTask.TaskStatuses.MedNLP.StartedAt = getFormattedNow()
		chunkTask.TaskStatuses.MedNLP.CompletedAt = getFormattedNow()
		chunkTask.TaskStatuses.MedNLP.Attempts += 1
		chunkTask.TaskStatuses.MedNLP.ErrorMessages = append(
			chunkTask.TaskStatuses.MedNLP.ErrorMessages,
			errorMessages...,
		)
	})
	return err
}

func (wrapper *redisClientWrapper) onTaskExceededRetries(task *Task, maxRetries int) error {
	err := wrapper.tasksClient.Documents.Update(task.chunkTask.DocID, func(docTask *tasks.DocumentTask) {
		docTask.FailedTasks = append(docTask.FailedTasks, "mednlp")
		if docTask.FailedChunks == nil {
			docTask.FailedChunks = make(map[string][]string)
		}
		docTask.FailedChunks[task.redisKey] = append(docTask.FailedChunks[task.redisKey], "mednlp")
	})
	if err != nil {
		return err
	}
	err = wrapper.tasksClient.Chunks.Update(task.redisKey, func(chunkTask *tasks.ChunkTask) {
		chunkTask.TaskStatuses.MedNLP.Status = tasks.TaskStatusCompletedFailure
		chunkTask.TaskStatuses.MedNLP.StartedAt = getFormattedNow()
		chunkTask.TaskStatuses.MedNLP.CompletedAt = getFormattedNow()
		chunkTask.TaskStatuses.MedNLP.Attempts += 1
		chunkTask.TaskStatuses.MedNLP.ErrorMessages = append(
			chunkTask.TaskStatuses.MedNLP.ErrorMessages,
			fmt.Sprintf(
				"Task has exceeded retries. (Attempts: %d, max retries: %d )",
				chunkTask.TaskStatuses.MedNLP.Attempts,
				maxRetries,
			),
		)
	})
	return err
}

func (wrapper *redisClientWrapper) onTaskFailedWithError(task *Task, err error) error {
	return wrapper.tasksClient.Chunks.Update(task.redisKey, func(chunkTask *tasks.ChunkTask) {
		chunkTask.TaskStatuses.MedNLP.Status = tasks.TaskStatusFailed
		chunkTask.TaskStatuses.MedNLP.CompletedAt = getFormattedNow()
		chunkTask.TaskStatuses.MedNLP.ErrorMessages = append(chunkTask.TaskStatuses.MedNLP.ErrorMessages, err.Error())
	})
}

func (wrapper *redisClientWrapper) onTaskComplete(task *Task) error {
	return wrapper.tasksClient.Chunks.Update(task.redisKey, func(chunkTask *tasks.ChunkTask) {
		if !chunkTask.TaskStatuses.MedNLP.Status.Complete() {
			chunkTask.TaskStatuses.MedNLP.Status = tasks.TaskStatusCompletedSuccess
		}
		chunkTask.TaskStatuses.MedNLP.CompletedAt = getFormattedNow()
		chunkTask.TaskStatuses.MedNLP.ResultsFileKey = getResultsFileKey(task)
	})
}

func (wrapper *redisClientWrapper) getChunkTask(redisKey string) (*tasks.ChunkTask, error) {
	return wrapper.tasksClient.Chunks.Get(redisKey)
}

func (wrapper *redisClientWrapper) getJobTask(task *Task) (*tasks.JobTask, error) {
	return wrapper.tasksClient.Jobs.GetCached(task.chunkTask.JobID)
}

func (wrapper *redisClientWrapper) getDocTask(task *Task) (*tasks.DocumentTaskCached, error) {
	return wrapper.tasksClient.Documents.GetCached(task.chunkTask.DocID)
}
