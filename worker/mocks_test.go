package worker

import (
	"errors"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"text2phenotype.com/postagger/pipeline"
	"text2phenotype.com/postagger/tasks"
)

const okResponse = `{"tid":"tag-1","corpus":"simple","model_id":"5f3a","sentences":[]}`

type failingMethod struct {
	fail bool
}

type withValue struct {
	fail          bool
	returnedValue interface{}
}

type pipelineMock struct {
	ppln    pipeline.Pipeline
	config  pipelineMockConfig
	calls   pipelineCall
	request pipeline.Request
}

type pipelineMockConfig struct {
	fail   bool
	result string
}

type pipelineCall struct {
	pipeline bool
}

type redisMock struct {
	config redisMockConfig
	calls  redisMockCalls
	// results file key seen by onTaskComplete
	completedWith string
}

type redisMockConfig struct {
	getTagTask            withValue
	onTaskCancelled       failingMethod
	onTaskStarted         failingMethod
	onTaskExceededRetries failingMethod
	onTaskFailedWithError failingMethod
	onTaskComplete        failingMethod
}

type redisMockCalls struct {
	getTagTask            bool
	onTaskCancelled       bool
	onTaskStarted         bool
	onTaskExceededRetries bool
	onTaskFailedWithError bool
	onTaskComplete        bool
}

type rmqMock struct {
	config rmqMockConfig
	calls  rmqMockCalls
}

type rmqMockConfig struct {
	reply               failingMethod
	acknowledgeDelivery failingMethod
}

type rmqMockCalls struct {
	reply               bool
	acknowledgeDelivery bool
	rejectDelivery      bool
}

type s3Mock struct {
	config  s3MockConfig
	calls   s3MockCalls
	savedTo string
}

type s3MockConfig struct {
	getText         withValue
	saveResultsFile failingMethod
}

type s3MockCalls struct {
	getText         bool
	saveResultsFile bool
}

func (mock *s3Mock) close() {}

func (mock *rmqMock) close() {}

func (mock *redisMock) close() {}

func getPipelineMock(config pipelineMockConfig) *pipelineMock {
	mock := pipelineMock{config: config}
	if len(mock.config.result) == 0 {
		mock.config.result = okResponse
	}
	mock.ppln = func(request pipeline.Request) <-chan string {
		mock.calls.pipeline = true
		mock.request = request
		if mock.config.fail {
			ch := make(chan string)
			close(ch)
			return ch
		}
		ch := make(chan string, 1)
		ch <- mock.config.result
		close(ch)
		return ch
	}
	return &mock
}

func (mock *redisMock) getTagTask(redisKey string) (*tasks.TagTask, error) {
	mock.calls.getTagTask = true
	if mock.config.getTagTask.fail {
		return nil, errors.New("failed to get tag task")
	}
	if task, ok := mock.config.getTagTask.returnedValue.(tasks.TagTask); ok {
		return &task, nil
	}
	return &tasks.TagTask{Corpus: "simple", TextFileKey: "incoming/tag-1.txt"}, nil
}

func (mock *redisMock) onTaskStarted(task *Task) error {
	mock.calls.onTaskStarted = true
	if mock.config.onTaskStarted.fail {
		return errors.New("failed to update tag task on start")
	}
	return nil
}

func (mock *redisMock) onTaskCancelled(task *Task) error {
	mock.calls.onTaskCancelled = true
	if mock.config.onTaskCancelled.fail {
		return errors.New("failed to update tag task on cancel")
	}
	return nil
}

func (mock *redisMock) onTaskExceededRetries(task *Task, maxRetries int) error {
	mock.calls.onTaskExceededRetries = true
	if mock.config.onTaskExceededRetries.fail {
		return errors.New("failed to update tag task on exceeded retries")
	}
	return nil
}

func (mock *redisMock) onTaskFailedWithError(task *Task, err error) error {
	mock.calls.onTaskFailedWithError = true
	if mock.config.onTaskFailedWithError.fail {
		return errors.New("failed to update tag task on fail with error")
	}
	return nil
}

func (mock *redisMock) onTaskComplete(task *Task) error {
	mock.calls.onTaskComplete = true
	mock.completedWith = task.resultsFileKey
	if mock.config.onTaskComplete.fail {
		return errors.New("failed to update tag task on complete")
	}
	return nil
}

func (mock *rmqMock) rejectDelivery(delivery *amqp.Delivery, rejectLogger *zerolog.Logger) {
	mock.calls.rejectDelivery = true
}

func (mock *rmqMock) getDeliveriesCh() <-chan amqp.Delivery {
	return nil
}

func (mock *rmqMock) getReqChanErrorsCh() <-chan *amqp.Error {
	return nil
}

func (mock *rmqMock) getRespChanErrorsCh() <-chan *amqp.Error {
	return nil
}

func (mock *rmqMock) reply(task *Task, message Message) error {
	mock.calls.reply = true
	if mock.config.reply.fail {
		return errors.New("failed to reply")
	}
	return nil
}

func (mock *rmqMock) acknowledgeDelivery(delivery *amqp.Delivery) error {
	mock.calls.acknowledgeDelivery = true
	if mock.config.acknowledgeDelivery.fail {
		return errors.New("failed to acknowledge delivery")
	}
	return nil
}

func (mock *s3Mock) getText(task *Task) ([]byte, error) {
	mock.calls.getText = true
	if mock.config.getText.fail {
		return nil, errors.New("mock: failed to load from s3")
	}
	if data, ok := mock.config.getText.returnedValue.([]byte); ok {
		return data, nil
	}
	return []byte("the dog runs"), nil
}

func (mock *s3Mock) saveResultsFile(key string, result string) error {
	mock.calls.saveResultsFile = true
	mock.savedTo = key
	if mock.config.saveResultsFile.fail {
		return errors.New("failed to upload results")
	}
	return nil
}
