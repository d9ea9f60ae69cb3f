package storage

// ExpectedSeq returns the next chunk sequence number the session is waiting for.
func (s *implStorage) ExpectedSeq(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return sess.expectedSeq
	}
	return 0
}

// AdvanceSeq increments the expected sequence number.
func (s *implStorage) AdvanceSeq(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.expectedSeq++
	}
}

// BufferChunk remembers a chunk that arrived ahead of the expected sequence.
func (s *implStorage) BufferChunk(id string, seq int, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.buffered[seq] = path
	}
}

// TakeBufferedChunk removes and returns a buffered chunk path if present.
func (s *implStorage) TakeBufferedChunk(id string, seq int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return "", false
	}

	path, ok := sess.buffered[seq]
	if ok {
		delete(sess.buffered, seq)
	}
	return path, ok
}
