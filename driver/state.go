package driver

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// State records what a create left behind: the provider's id for the
// instance and the address it is reached at. Destroy clears both.
type State struct {
	ServerID string `yaml:"server_id,omitempty"`
	Hostname string `yaml:"hostname,omitempty"`
}

// StateStore persists the instance state between runs.
type StateStore interface {
	Load() (*State, error)
	Save(*State) error
}

// FileStore keeps the state in a YAML file. A missing file loads as an
// empty state.
type FileStore struct {
	Path string
}

// Load reads the state file.
func (f *FileStore) Load() (*State, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, errors.Wrapf(err, "reading state %s", f.Path)
	}
	state := &State{}
	if err := yaml.Unmarshal(data, state); err != nil {
		return nil, errors.Wrapf(err, "parsing state %s", f.Path)
	}
	return state, nil
}

// Save writes the state file.
func (f *FileStore) Save(state *State) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "encoding state")
	}
	if err := os.WriteFile(f.Path, data, 0600); err != nil {
		return errors.Wrapf(err, "writing state %s", f.Path)
	}
	return nil
}
