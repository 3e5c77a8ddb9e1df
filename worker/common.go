package worker

import (
	"fmt"
	"path"
	"time"
)

// getResultsFileKey places results under the corpus and the model they were
// produced with, so retraining never overwrites older output.
func getResultsFileKey(corpus, modelID, redisKey string) string {
	return path.Join(
		"processed",
		"tags",
		fmt.Sprintf("%s-%s", corpus, modelID),
		fmt.Sprintf("%s.tags.json", redisKey),
	)
}

const RFC3339Micro = "2006-01-02T15:04:05.000000-07:00"

func getFormattedNow() *string {
	now := time.Now().UTC().Format(RFC3339Micro)
	return &now
}
