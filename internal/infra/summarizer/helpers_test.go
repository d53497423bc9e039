package summarizer_test

import (
	"sync"
	"time"

	"link-summarizer/internal/domain/entity"
)

// recorder captures MetricsRecorder calls.
type recorder struct {
	mu        sync.Mutex
	summaries []int
	failures  []error
}

func (r *recorder) RecordSummary(_ string, length int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries = append(r.summaries, length)
}

func (r *recorder) RecordFailure(_ string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, err)
}

var defaultBounds = entity.LengthBounds{Min: 40, Max: 130}

const articleText = `The city council voted on Tuesday to approve construction of a new bridge across the river, ending a debate that lasted nearly a decade.

Supporters said the bridge would cut commuting times for thousands of residents. Opponents raised concerns about the cost, which is expected to exceed two hundred million dollars.

Construction is scheduled to begin next spring and is expected to take three years.`
