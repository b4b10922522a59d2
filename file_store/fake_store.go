package file_store

import (
	"context"
	"errors"
	"io"
	"io/ioutil"
	"sync"
)

const FakeBaseUrl = "https://fake.store"

var ErrFakeUpload = errors.New("fake upload failure")

// FakeFileStore keeps uploads in memory. Set FailAll or FailFirst to simulate
// storage outages.
type FakeFileStore struct {
	mu sync.Mutex

	// Fail every Store call.
	FailAll bool
	// Fail this many Store calls before succeeding.
	FailFirst int

	calls   int
	objects map[string][]byte
	keys    []string
	deleted []string
}

func NewFakeFileStore() *FakeFileStore {
	return &FakeFileStore{objects: map[string][]byte{}}
}

func (s *FakeFileStore) Store(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.FailAll || s.calls <= s.FailFirst {
		return "", ErrFakeUpload
	}
	data, err := ioutil.ReadAll(body)
	if err != nil {
		return "", err
	}
	if s.objects == nil {
		s.objects = map[string][]byte{}
	}
	s.objects[key] = data
	s.keys = append(s.keys, key)
	return s.GetUrlFromKey(key), nil
}

func (*FakeFileStore) GetUrlFromKey(key string) string {
	return joinUrl(FakeBaseUrl, key)
}

func (s *FakeFileStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

// SetFailAll toggles FailAll while other goroutines may be storing.
func (s *FakeFileStore) SetFailAll(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FailAll = fail
}

// Keys returns stored keys in upload order.
func (s *FakeFileStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.keys...)
}

// Deleted returns deleted keys in deletion order.
func (s *FakeFileStore) Deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

func (s *FakeFileStore) Object(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}

// Calls counts every Store call, failed ones included.
func (s *FakeFileStore) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
