package config

import (
	"encoding/json"
	"fmt"

	"github.com/quasilyte/gdata"
)

const tuningKey = "tuning"

// Store persists tuning overrides in the per-user game data directory.
type Store struct {
	m *gdata.Manager
}

// OpenStore opens the gdata store for appName.
func OpenStore(appName string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("open gdata: %w", err)
	}
	return &Store{m: m}, nil
}

// Load returns base with any saved overrides applied on top. A missing
// item yields base unchanged.
func (s *Store) Load(base Tuning) (Tuning, error) {
	data, err := s.m.LoadItem(tuningKey)
	if err != nil {
		return base, fmt.Errorf("load %s: %w", tuningKey, err)
	}
	if data == nil {
		return base, nil
	}
	return DecodeOverrides(base, data)
}

func (s *Store) Save(t Tuning) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal tuning: %w", err)
	}
	if err := s.m.SaveItem(tuningKey, data); err != nil {
		return fmt.Errorf("save %s: %w", tuningKey, err)
	}
	return nil
}

// DecodeOverrides applies a (possibly partial) JSON document onto base and
// validates the result.
func DecodeOverrides(base Tuning, data []byte) (Tuning, error) {
	out := base
	if err := json.Unmarshal(data, &out); err != nil {
		return base, fmt.Errorf("parse tuning: %w", err)
	}
	if err := out.Validate(); err != nil {
		return base, err
	}
	return out, nil
}
