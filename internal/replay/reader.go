package replay

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/philippe-ths/tanks/internal/domain"
)

// Load reads a .tnkr file written by Save back into a Session.
func Load(path string) (*Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: open %s: %w", path, err)
	}
	defer f.Close()
	return read(f)
}

func read(r io.Reader) (*Session, error) {
	var header fileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("replay: read header: %w", err)
	}
	if string(header.Magic[:]) != magicHeader {
		return nil, fmt.Errorf("replay: bad magic %q", header.Magic[:])
	}
	if header.Version != formatVersion {
		return nil, fmt.Errorf("replay: unsupported version %d (want %d)", header.Version, formatVersion)
	}

	metaBuf := make([]byte, header.MetadataLen)
	if _, err := io.ReadFull(r, metaBuf); err != nil {
		return nil, fmt.Errorf("replay: read metadata: %w", err)
	}
	var meta metadata
	if err := json.Unmarshal(metaBuf, &meta); err != nil {
		return nil, fmt.Errorf("replay: unmarshal metadata: %w", err)
	}

	session := &Session{
		Seed:         header.Seed,
		Timestamp:    header.Timestamp,
		Participants: meta.Participants,
		Actions:      make([]Action, 0, header.ActionCount),
	}
	if err := json.Unmarshal(meta.Constants, &session.Constants); err != nil {
		return nil, fmt.Errorf("replay: unmarshal constants: %w", err)
	}

	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("replay: new zstd reader: %w", err)
	}
	defer dec.Close()

	for i := uint32(0); i < header.ActionCount; i++ {
		a, err := readAction(dec)
		if err != nil {
			return nil, fmt.Errorf("replay: read action %d: %w", i, err)
		}
		session.Actions = append(session.Actions, a)
	}
	return session, nil
}

func readAction(r io.Reader) (Action, error) {
	var rec actionRecord
	if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
		return Action{}, err
	}

	slotBuf := make([]byte, rec.SlotLen)
	if _, err := io.ReadFull(r, slotBuf); err != nil {
		return Action{}, err
	}

	a := Action{
		Tick:  rec.Tick,
		Slot:  domain.Slot(slotBuf),
		Kind:  domain.ActionKind(rec.Kind),
		ADeg:  rec.ADeg,
		BDeg:  rec.BDeg,
		Shoot: rec.Shoot != 0,
	}
	if rec.HasDegrees != 0 {
		d := rec.Degrees
		a.Degrees = &d
	}
	return a, nil
}
