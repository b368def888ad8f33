package sim

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/rv32/pipesim/internal/pipeline"
)

// Checkpoint holds enough state to resume a run: architectural
// register file, PC, the full memory image, and the cycle-accounting
// stats accumulated so far. Cache line state is intentionally not
// captured — a resumed run starts with a cold cache,
// which only affects hit/miss counts, never correctness.
type Checkpoint struct {
	Registers [32]uint32
	PC        uint32
	Memory    []byte
	Stats     pipeline.Stats
}

// SaveCheckpoint writes a State snapshot to path, mirroring the
// teacher's pkg/result gob checkpoint pattern.
func SaveCheckpoint(path string, s *State) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sim: create checkpoint: %w", err)
	}
	defer f.Close()

	ckpt := Checkpoint{
		Registers: s.Registers(),
		PC:        s.PC(),
		Memory:    s.memSnapshot(),
		Stats:     s.Stats(),
	}
	if err := gob.NewEncoder(f).Encode(&ckpt); err != nil {
		return fmt.Errorf("sim: encode checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint reads a checkpoint file back.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sim: open checkpoint: %w", err)
	}
	defer f.Close()

	var ckpt Checkpoint
	if err := gob.NewDecoder(f).Decode(&ckpt); err != nil {
		return nil, fmt.Errorf("sim: decode checkpoint: %w", err)
	}
	return &ckpt, nil
}

// Resume rebuilds a State at entryPC via Init (to get a fresh
// pipeline/cache) and then overlays the checkpointed architectural
// state on top, leaving in-flight latch contents empty (equivalent to
// resuming between instructions, never mid-pipeline).
func Resume(ckpt *Checkpoint, cfg Config) (*State, error) {
	s, err := Init(ckpt.Memory, ckpt.PC, cfg)
	if err != nil {
		return nil, err
	}
	s.restoreRegisters(ckpt.Registers, ckpt.PC)
	s.restoreStats(ckpt.Stats)
	return s, nil
}
