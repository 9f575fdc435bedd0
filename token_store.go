package numcode

import "fmt"

// tokenStore keeps the token text of a dictionary in one byte arena, directly
// indexed by ID. Entry id occupies arena[offsets[id-1]:offsets[id]].
type tokenStore struct {
	offsets []uint32 // offsets[0] == 0; len == ids+1
	arena   []byte
	counts  []uint64 // corpus frequency by id-1
}

func newTokenStore(capacity int) *tokenStore {
	s := &tokenStore{
		offsets: make([]uint32, 1, capacity+1),
		counts:  make([]uint64, 0, capacity),
	}
	return s
}

// Len returns the number of stored tokens.
func (s *tokenStore) Len() int {
	return len(s.offsets) - 1
}

// Put stores a token at ID id. IDs have to arrive contiguously from 1.
func (s *tokenStore) Put(id uint32, token string, count uint64) error {
	if int(id) != s.Len()+1 {
		return fmt.Errorf("token store: expected ID %d, got %d", s.Len()+1, id)
	}
	if uint64(len(s.arena))+uint64(len(token)) > uint64(^uint32(0)) {
		return fmt.Errorf("token store: arena exceeds 4 GiB")
	}
	s.arena = append(s.arena, token...)
	s.offsets = append(s.offsets, uint32(len(s.arena)))
	s.counts = append(s.counts, count)
	return nil
}

// Token returns the token stored at ID id.
func (s *tokenStore) Token(id uint32) (string, bool) {
	if id == 0 || int(id) > s.Len() {
		return "", false
	}
	return string(s.arena[s.offsets[id-1]:s.offsets[id]]), true
}

// Count returns the corpus frequency stored at ID id.
func (s *tokenStore) Count(id uint32) (uint64, bool) {
	if id == 0 || int(id) > s.Len() {
		return 0, false
	}
	return s.counts[id-1], true
}
