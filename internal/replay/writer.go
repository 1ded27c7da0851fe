package replay

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// fileHeader is the fixed-size prefix of a .tnkr file, written whole
// with binary.Write the way the teacher's ReplayFileHeader is — magic
// and version first so a reader can bail out before trusting anything
// else in the file.
type fileHeader struct {
	Magic       [4]byte
	Version     uint32
	Seed        int64
	Timestamp   int64
	MetadataLen uint32 // length of the JSON-encoded participants+constants block
	ActionCount uint32
}

// metadata is the JSON-encoded block following the fixed header:
// participants and constants are small, written once per session, and
// carry nested maps/slices the fixed-size binary header can't express
// directly — so unlike the teacher's all-binary format, only the
// per-action stream below is encoded as fixed records.
type metadata struct {
	Participants []ParticipantInfo `json:"participants"`
	Constants    json.RawMessage   `json:"constants"`
}

// Save writes session to path as a .tnkr file: fixed header, JSON
// metadata, then a zstd-compressed stream of fixed-size action
// records. Compressing just the action stream (not the whole file)
// keeps the header/metadata trivially readable by a tool that only
// wants the seed or participant list without paying decompression
// cost.
func Save(path string, session *Session) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("replay: create %s: %w", path, err)
	}
	defer f.Close()
	return write(f, session)
}

func write(w io.Writer, s *Session) error {
	constantsJSON, err := json.Marshal(s.Constants)
	if err != nil {
		return fmt.Errorf("replay: marshal constants: %w", err)
	}
	meta := metadata{Participants: s.Participants, Constants: constantsJSON}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("replay: marshal metadata: %w", err)
	}

	header := fileHeader{
		Version:     formatVersion,
		Seed:        s.Seed,
		Timestamp:   s.Timestamp,
		MetadataLen: uint32(len(metaJSON)),
		ActionCount: uint32(len(s.Actions)),
	}
	copy(header.Magic[:], magicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("replay: write header: %w", err)
	}
	if _, err := w.Write(metaJSON); err != nil {
		return fmt.Errorf("replay: write metadata: %w", err)
	}

	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("replay: new zstd writer: %w", err)
	}
	defer enc.Close()

	for _, a := range s.Actions {
		if err := writeAction(enc, a); err != nil {
			return fmt.Errorf("replay: write action: %w", err)
		}
	}
	return enc.Close()
}

// actionRecord is the fixed-size wire shape of one Action. Degrees is
// carried as a presence flag plus a value rather than a pointer, since
// a fixed-size record can't encode "absent" any other way.
type actionRecord struct {
	Tick       int64
	SlotLen    uint8
	Kind       uint8
	HasDegrees uint8
	Shoot      uint8
	Degrees    float64
	ADeg       float64
	BDeg       float64
}

func writeAction(w io.Writer, a Action) error {
	slotBytes := []byte(a.Slot)
	if len(slotBytes) > 255 {
		return fmt.Errorf("slot name too long: %d bytes", len(slotBytes))
	}

	rec := actionRecord{
		Tick:    a.Tick,
		SlotLen: uint8(len(slotBytes)),
		Kind:    uint8(a.Kind),
		ADeg:    a.ADeg,
		BDeg:    a.BDeg,
	}
	if a.Degrees != nil {
		rec.HasDegrees = 1
		rec.Degrees = *a.Degrees
	}
	if a.Shoot {
		rec.Shoot = 1
	}

	if err := binary.Write(w, binary.LittleEndian, &rec); err != nil {
		return err
	}
	_, err := w.Write(slotBytes)
	return err
}
