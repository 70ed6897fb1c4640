package config

import (
	"sync"
)

// Form keys under which the airdrop form fields are persisted.
const (
	KeyTokenAddress = "tokenAddress"
	KeyRecipients   = "recipients"
	KeyAmounts      = "amounts"
)

// KV is a small string key-value store.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Form is the last-entered airdrop input, stored as raw text.
type Form struct {
	TokenAddress string
	Recipients   string
	Amounts      string
}

// LoadForm reads the saved form fields; missing keys yield empty strings.
func LoadForm(kv KV) (Form, error) {
	var f Form
	for key, dst := range f.fields() {
		v, ok, err := kv.Get(key)
		if err != nil {
			return Form{}, err
		}
		if ok {
			*dst = v
		}
	}
	return f, nil
}

// SaveFormChanges writes only the fields that differ between prev and next.
func SaveFormChanges(kv KV, prev, next Form) error {
	before := prev.fields()
	for key, dst := range next.fields() {
		if *before[key] == *dst {
			continue
		}
		if err := kv.Set(key, *dst); err != nil {
			return err
		}
	}
	return nil
}

// ClearForm removes every saved form field.
func ClearForm(kv KV) error {
	for _, key := range []string{KeyTokenAddress, KeyRecipients, KeyAmounts} {
		if err := kv.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

func (f *Form) fields() map[string]*string {
	return map[string]*string{
		KeyTokenAddress: &f.TokenAddress,
		KeyRecipients:   &f.Recipients,
		KeyAmounts:      &f.Amounts,
	}
}

// --- file store ---

// FileKV persists keys as a flat JSON object.
type FileKV struct {
	mu   sync.Mutex
	path string
}

// NewFileKV returns a store backed by the JSON file at path.
func NewFileKV(path string) *FileKV {
	return &FileKV{path: path}
}

func (s *FileKV) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := loadJSON[map[string]string](s.path)
	if err != nil {
		return "", false, err
	}
	v, ok := (*m)[key]
	return v, ok, nil
}

func (s *FileKV) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.load()
	if err != nil {
		return err
	}
	m[key] = value
	return saveJSON(s.path, m)
}

func (s *FileKV) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := m[key]; !ok {
		return nil
	}
	delete(m, key)
	return saveJSON(s.path, m)
}

func (s *FileKV) load() (map[string]string, error) {
	m, err := loadJSON[map[string]string](s.path)
	if err != nil {
		return nil, err
	}
	if *m == nil {
		return make(map[string]string), nil
	}
	return *m, nil
}

// --- in-memory store (for tests) ---

// MemKV is an in-memory KV.
type MemKV struct {
	mu     sync.Mutex
	values map[string]string
	Writes int
}

func NewMemKV() *MemKV {
	return &MemKV{values: make(map[string]string)}
}

func (s *MemKV) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemKV) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.Writes++
	return nil
}

func (s *MemKV) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
