package observer

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/rope-survival/internal/sim"
)

// Encode serializes a snapshot for the wire.
func Encode(snap sim.Snapshot) ([]byte, error) {
	data, err := msgpack.Marshal(&snap)
	if err != nil {
		return nil, fmt.Errorf("observer: cannot encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot produced by Encode.
func Decode(data []byte) (sim.Snapshot, error) {
	var snap sim.Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return sim.Snapshot{}, fmt.Errorf("observer: cannot decode snapshot: %w", err)
	}
	return snap, nil
}
