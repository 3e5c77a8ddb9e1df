package worker

import (
	"text2phenotype.com/postagger/s3client"
)

type s3Transactions interface {
	saveResultsFile(key string, result string) error
	getText(task *Task) ([]byte, error)
	close()
}

type s3ClientWrapper struct {
	s3Client *s3client.Client
}

func (wrapper *s3ClientWrapper) close() {
	wrapper.s3Client.Close()
}

func (wrapper *s3ClientWrapper) saveResultsFile(key string, result string) error {
	_, err := wrapper.s3Client.Upload(result, key)
	return err
}

func (wrapper *s3ClientWrapper) getText(task *Task) ([]byte, error) {
	return wrapper.s3Client.Download(task.tagTask.TextFileKey)
}
