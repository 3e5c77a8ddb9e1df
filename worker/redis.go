package worker

import (
	"fmt"
	"text2phenotype.com/postagger/tasks"
)

type redisTransactions interface {
	getTagTask(redisKey string) (*tasks.TagTask, error)
	onTaskStarted(task *Task) error
	onTaskCancelled(task *Task) error
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

func (wrapper *redisClientWrapper) getTagTask(redisKey string) (*tasks.TagTask, error) {
	return wrapper.tasksClient.Tags.Get(redisKey)
}

func (wrapper *redisClientWrapper) onTaskStarted(task *Task) error {
	return wrapper.tasksClient.Tags.Update(task.redisKey, func(tagTask *tasks.TagTask) {
		markStarted(&tagTask.Status)
	})
}

func (wrapper *redisClientWrapper) onTaskCancelled(task *Task) error {
	return wrapper.tasksClient.Tags.Update(task.redisKey, func(tagTask *tasks.TagTask) {
		markCanceled(&tagTask.Status)
	})
}

func (wrapper *redisClientWrapper) onTaskExceededRetries(task *Task, maxRetries int) error {
	return wrapper.tasksClient.Tags.Update(task.redisKey, func(tagTask *tasks.TagTask) {
		markExceededRetries(&tagTask.Status, maxRetries)
	})
}

func (wrapper *redisClientWrapper) onTaskFailedWithError(task *Task, err error) error {
	return wrapper.tasksClient.Tags.Update(task.redisKey, func(tagTask *tasks.TagTask) {
		markFailed(&tagTask.Status, err)
	})
}

func (wrapper *redisClientWrapper) onTaskComplete(task *Task) error {
	return wrapper.tasksClient.Tags.Update(task.redisKey, func(tagTask *tasks.TagTask) {
		markComplete(&tagTask.Status, task.resultsFileKey)
	})
}

func markStarted(info *tasks.TaskInfo) {
	info.Status = tasks.TaskStatusStarted
	info.Attempts++
	info.StartedAt = getFormattedNow()
	info.CompletedAt = nil
}

func markCanceled(info *tasks.TaskInfo) {
	info.Status = tasks.TaskStatusCanceled
	info.StartedAt = getFormattedNow()
	info.CompletedAt = getFormattedNow()
	info.Attempts++
}

func markExceededRetries(info *tasks.TaskInfo, maxRetries int) {
	info.Status = tasks.TaskStatusCompletedFailure
	info.StartedAt = getFormattedNow()
	info.CompletedAt = getFormattedNow()
	info.Attempts++
	info.ErrorMessages = append(info.ErrorMessages, fmt.Sprintf(
		"Task has exceeded retries. (Attempts: %d, max retries: %d)", info.Attempts, maxRetries,
	))
}

func markFailed(info *tasks.TaskInfo, err error) {
	info.Status = tasks.TaskStatusFailed
	info.CompletedAt = getFormattedNow()
	info.ErrorMessages = append(info.ErrorMessages, err.Error())
}

func markComplete(info *tasks.TaskInfo, resultsFileKey string) {
	if !info.Status.Complete() {
		info.Status = tasks.TaskStatusCompletedSuccess
	}
	info.CompletedAt = getFormattedNow()
	info.ResultsFileKey = resultsFileKey
}
