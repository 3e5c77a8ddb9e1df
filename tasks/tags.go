package tasks

import (
	"text2phenotype.com/postagger/redis"
)

const TagsDB redis.DB = 2

type TaskStatus string

const (
	TaskStatusSubmitted        TaskStatus = "submitted"
	TaskStatusStarted          TaskStatus = "started"
	TaskStatusFailed           TaskStatus = "failed"
	TaskStatusCompletedSuccess TaskStatus = "completed - success"
	TaskStatusCompletedFailure TaskStatus = "completed - failure"
	TaskStatusCanceled         TaskStatus = "canceled"
)

func (s TaskStatus) Complete() bool {
	return s == TaskStatusCompletedSuccess || s == TaskStatusCompletedFailure || s == TaskStatusCanceled
}

// TagTask asks for the text under TextFileKey to be tagged with the model
// trained on Corpus.
type TagTask struct {
	Corpus      string   `json:"corpus"`
	TextFileKey string   `json:"text_file_key"`
	Canceled    bool     `json:"canceled"`
	Status      TaskInfo `json:"status"`
}

type TaskInfo struct {
	Status         TaskStatus `json:"status"`
	Attempts       int        `json:"attempts"`
	StartedAt      *string    `json:"started_at"`
	CompletedAt    *string    `json:"completed_at"`
	ResultsFileKey string     `json:"results_file_key"`
	ErrorMessages  []string   `json:"error_messages"`
}

type TagTasks struct {
	client redis.Client
}

func (tasks TagTasks) Get(redisKey string) (*TagTask, error) {
	var task TagTask
	if err := tasks.client.GetDoc(redisKey, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (tasks TagTasks) Update(redisKey string, updateFunc func(task *TagTask)) error {
	var task TagTask
	return tasks.client.UpdateDoc(redisKey, &task, func() {
		updateFunc(&task)
	})
}
