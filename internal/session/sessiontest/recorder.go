// Package sessiontest provides a recording session.Handle for tests.
package sessiontest

import "sync"

// Recorder is a session.Handle that keeps everything sent to it.
type Recorder struct {
	mu   sync.Mutex
	msgs [][]byte

	// Err, when set, is returned from Send after recording.
	Err error
}

func (r *Recorder) Send(data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.msgs = append(r.msgs, append([]byte(nil), data...))
	return r.Err
}

// Messages returns a copy of everything sent so far.
func (r *Recorder) Messages() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([][]byte(nil), r.msgs...)
}

// Count returns the number of messages sent so far.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.msgs)
}

// Last returns the most recent message, or nil.
func (r *Recorder) Last() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.msgs) == 0 {
		return nil
	}
	return r.msgs[len(r.msgs)-1]
}

// Reset forgets everything recorded.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.msgs = nil
}
