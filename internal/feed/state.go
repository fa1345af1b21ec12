package feed

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// State is the client's persisted identity: an anonymous session id and the
// reaction ledger that goes with it.
type State struct {
	SessionID string  `json:"sessionId"`
	Ledger    *Ledger `json:"reactions"`
}

func NewState() *State {
	return &State{SessionID: uuid.NewString(), Ledger: NewLedger()}
}

// LoadState reads state from path. A missing file yields a fresh session.
func LoadState(path string) (*State, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewState(), nil
	}
	if err != nil {
		return nil, err
	}

	st := &State{Ledger: NewLedger()}
	if err := json.Unmarshal(b, st); err != nil {
		return nil, fmt.Errorf("parse state %s: %w", path, err)
	}
	if st.Ledger == nil {
		st.Ledger = NewLedger()
	}
	if _, err := uuid.Parse(st.SessionID); err != nil {
		st.SessionID = uuid.NewString()
	}
	return st, nil
}

// Save writes state to path through a temp file and rename.
func (s *State) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".state-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
