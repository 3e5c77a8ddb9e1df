package tasks

import (
	"text2phenotype.com/postagger/redis"
)

// Client gives typed access to the task documents in Redis.
type Client struct {
	Tags TagTasks
}

func NewClient() (Client, error) {
	tagsRedisClient, err := redis.NewClient(TagsDB)
	if err != nil {
		return Client{}, err
	}
	return Client{Tags: TagTasks{client: tagsRedisClient}}, nil
}

func (client *Client) Close() {
	_ = client.Tags.client.Close()
}
