package worker

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"text2phenotype.com/postagger/pipeline"
	"text2phenotype.com/postagger/tasks"
	"text2phenotype.com/postagger/types"
	"text2phenotype.com/postagger/utils"
)

type Message struct {
	WorkType string `json:"work_type"`
	RedisKey string `json:"redis_key"`
	Sender   string `json:"sender"`
	Version  string `json:"version"`
}

type Task struct {
	delivery       *amqp.Delivery
	tagTask        *tasks.TagTask
	message        *Message
	redisKey       string
	resultsFileKey string
	taskLogger     *zerolog.Logger
}

func (worker *Worker) processMessage(delivery *amqp.Delivery) {
	rejectLogger := worker.workerLogger.With().Str("message_id", delivery.MessageId).Logger()
	task, err := worker.createTask(delivery)
	if err != nil {
		rejectLogger.Err(err).Str("body", string(delivery.Body)).Msg("Failed to create task for delivery")
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.processTask(task); err != nil {
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.rmq.reply(task, *task.message); err != nil {
		task.taskLogger.Err(err).Msg("Failed to send reply")
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.rmq.acknowledgeDelivery(delivery); err != nil {
		task.taskLogger.Err(err).Msg("Failed to acknowledge delivery")
	}
	task.taskLogger.Info().Msg("Finished processing RMQ message")
}

func (worker *Worker) createTask(delivery *amqp.Delivery) (*Task, error) {
	var message Message
	if err := json.Unmarshal(delivery.Body, &message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	tagTask, err := worker.redis.getTagTask(message.RedisKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query tag task for message: %w", err)
	}
	taskLogger := worker.workerLogger.With().
		Str("tid", message.RedisKey).
		Str("corpus", tagTask.Corpus).
		Logger()
	return &Task{
		delivery:   delivery,
		tagTask:    tagTask,
		redisKey:   message.RedisKey,
		message:    &message,
		taskLogger: &taskLogger,
	}, nil
}

// processTask returns an error only when the task document could not be
// updated. Tagging failures are recorded on the task and the message is
// still replied to.
func (worker *Worker) processTask(task *Task) error {
	shouldPerform, err := worker.shouldPerformTask(task)
	if err != nil {
		task.taskLogger.Err(err).Msg("Failed to decide whether to run task")
		return err
	}
	if !shouldPerform {
		return nil
	}
	if err = worker.redis.onTaskStarted(task); err != nil {
		task.taskLogger.Err(err).Msg("Failed to update task info")
		return fmt.Errorf("failed to update task info: %w", err)
	}
	if err = worker.runPipeline(task); err != nil {
		task.taskLogger.Err(err).Msg("Tagging failed")
		return worker.redis.onTaskFailedWithError(task, err)
	}
	task.taskLogger.Info().Str("results_file_key", task.resultsFileKey).Msg("Saved results, marking task as complete")
	if err = worker.redis.onTaskComplete(task); err != nil {
		task.taskLogger.Err(err).Msg("Failed to mark task as complete")
		return err
	}
	return nil
}

func (worker *Worker) runPipeline(task *Task) (err error) {
	defer utils.RecoverWithError(&err)
	task.taskLogger.Info().Int("attempt", task.tagTask.Status.Attempts).Msg("Processing message from RMQ")

	data, err := worker.s3.getText(task)
	if err != nil {
		return fmt.Errorf("failed to fetch text from s3: %w", err)
	}
	result, ok := <-worker.ppln(pipeline.Request{
		Tid:    task.redisKey,
		Corpus: task.tagTask.Corpus,
		Text:   string(data),
	})
	if !ok {
		return errors.New("pipeline channel was closed before returning anything")
	}

	var response types.TagResponse
	if err = json.Unmarshal([]byte(result), &response); err != nil {
		return fmt.Errorf("failed to read pipeline response: %w", err)
	}
	if len(response.Error) > 0 {
		return errors.New(response.Error)
	}

	resultsFileKey := getResultsFileKey(task.tagTask.Corpus, response.ModelID, task.redisKey)
	if err = worker.s3.saveResultsFile(resultsFileKey, result); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}
	task.resultsFileKey = resultsFileKey
	return nil
}

func (worker *Worker) shouldPerformTask(task *Task) (bool, error) {
	taskInfo := task.tagTask.Status
	taskLogger := task.taskLogger

	if taskInfo.Status.Complete() {
		taskLogger.Info().Msg("Task is already done, replying again")
		return false, nil
	}
	if task.tagTask.Canceled {
		taskLogger.Info().Msg("Task was canceled")
		return false, worker.redis.onTaskCancelled(task)
	}
	if taskInfo.Attempts >= worker.config.TaskMaxRetries {
		taskLogger.Info().Msg("Task has exceeded retries")
		return false, worker.redis.onTaskExceededRetries(task, worker.config.TaskMaxRetries)
	}
	return true, nil
}
