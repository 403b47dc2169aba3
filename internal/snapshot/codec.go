package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Decode reads serialized snapshot data from r.
func Decode(r io.Reader) (*Data, error) {
	var data Data
	dec := json.NewDecoder(r)
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &data, nil
}

// LoadFile reads serialized snapshot data from a JSON file.
func LoadFile(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// WriteFile serializes snapshot data to a JSON file. Used by the inspect
// and export surfaces; the engine itself never writes snapshots.
func WriteFile(path string, data *Data) error {
	buf, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}
	return nil
}
