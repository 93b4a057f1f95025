// Package codec encodes persisted session blobs into a self-checking
// envelope. The envelope is CBOR (Core Deterministic Encoding) carrying the
// blob and its BLAKE3-256 checksum, so a truncated or partially written
// envelope never decodes as a valid session.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
)

// Version is the current envelope format
const Version = 1

// ErrCorrupt is returned when stored data is not a valid envelope
var ErrCorrupt = errors.New("session data corrupt")

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	// Unmarshal rejects trailing bytes, so a concatenated or mangled file
	// fails to decode instead of yielding the first envelope.
	decMode, err = cbor.DecOptions{
		MaxByteStringLen: 16 << 20,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

type envelope struct {
	Version  int    `cbor:"1,keyasint"`
	SavedAt  int64  `cbor:"2,keyasint"`
	Blob     []byte `cbor:"3,keyasint"`
	Checksum []byte `cbor:"4,keyasint"`
}

// Seal wraps blob into an envelope
func Seal(blob []byte, savedAt time.Time) ([]byte, error) {
	sum := blake3.Sum256(blob)
	data, err := encMode.Marshal(envelope{
		Version:  Version,
		SavedAt:  savedAt.Unix(),
		Blob:     blob,
		Checksum: sum[:],
	})
	if err != nil {
		return nil, fmt.Errorf("encoding session envelope: %w", err)
	}
	return data, nil
}

// Open verifies an envelope and returns the blob inside it
func Open(data []byte) ([]byte, error) {
	var env envelope
	if err := decMode.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if env.Version != Version {
		return nil, fmt.Errorf("%w: unsupported envelope version %d", ErrCorrupt, env.Version)
	}

	sum := blake3.Sum256(env.Blob)
	if !bytes.Equal(sum[:], env.Checksum) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}

	return env.Blob, nil
}
