package world

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// snapshot is the YAML layout of a saved world. Maps are flattened to
// lists so the file stays diffable.
type snapshot struct {
	Chunks             []*Chunk          `yaml:"chunks"`
	Regions            []Region          `yaml:"regions"`
	Locations          []*Location       `yaml:"locations"`
	Settlements        map[string]string `yaml:"settlements"`
	CharacterLocations map[string]string `yaml:"character_locations,omitempty"`
	ActiveLocationID   string            `yaml:"active_location,omitempty"`
}

// LoadSnapshot reads a world snapshot from a YAML file.
func LoadSnapshot(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}

	var snap snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}

	st := NewState()
	for _, c := range snap.Chunks {
		st.SetChunk(c)
	}
	st.Regions = snap.Regions
	for _, loc := range snap.Locations {
		st.AddLocation(loc)
	}
	for k, v := range snap.Settlements {
		st.Settlements[k] = SettlementKind(v)
	}
	for k, v := range snap.CharacterLocations {
		st.CharacterLocations[k] = v
	}
	st.ActiveLocationID = snap.ActiveLocationID
	return st, nil
}

// SaveSnapshot writes the world to a YAML file, creating parent
// directories as needed.
func (s *State) SaveSnapshot(path string) error {
	snap := snapshot{
		Regions:            s.Regions,
		Settlements:        make(map[string]string, len(s.Settlements)),
		CharacterLocations: s.CharacterLocations,
		ActiveLocationID:   s.ActiveLocationID,
	}
	for _, c := range s.Chunks {
		snap.Chunks = append(snap.Chunks, c)
	}
	sortChunks(snap.Chunks)
	for _, loc := range s.Locations {
		snap.Locations = append(snap.Locations, loc)
	}
	sortLocations(snap.Locations)
	for k, v := range s.Settlements {
		snap.Settlements[k] = string(v)
	}

	data, err := yaml.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}
