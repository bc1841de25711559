package events

import "time"

type JournalOpt func(*Journal)

// WithBufferSize sets how many events may wait for publishing.
func WithBufferSize(n int) JournalOpt {
	return func(j *Journal) {
		j.bufferSize = n
	}
}

// WithRetryDelay sets how long to wait before redialling.
func WithRetryDelay(d time.Duration) JournalOpt {
	return func(j *Journal) {
		j.retryDelay = d
	}
}
