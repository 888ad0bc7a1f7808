// Package snapshot encodes the contents of a darray.Array as CBOR and
// rebuilds arrays from those encodings.
//
// Only non empty slots are stored. Each payload is encoded on its own with
// the provided codec, so any type the codec can round trip may be used.
package snapshot

import (
	"errors"
	"fmt"

	commoncbor "github.com/datatrails/go-datatrails-common/cbor"
	"github.com/forestrie/go-landings/darray"
	"github.com/forestrie/go-landings/landing"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

const CurrentVersion = uint16(1)

var (
	ErrSnapshotInvalid = errors.New("the snapshot is not consistent with its header")
	ErrVersion         = errors.New("the snapshot version is not supported")
)

type Entry struct {
	Index uint64          `cbor:"1,keyasint"`
	Value cbor.RawMessage `cbor:"2,keyasint"`
}

// Snapshot is the encoded form. Frontier is -1 for an array that was never
// written.
type Snapshot struct {
	ID       []byte  `cbor:"1,keyasint"`
	Version  uint16  `cbor:"2,keyasint"`
	Count    uint64  `cbor:"3,keyasint"`
	Frontier int64   `cbor:"4,keyasint"`
	Landings uint64  `cbor:"5,keyasint"`
	Entries  []Entry `cbor:"6,keyasint"`
}

// Header describes a snapshot without its payloads. Frontier and Landings
// are the LargestIndex and LandingCount of the encoded array.
type Header struct {
	ID       uuid.UUID
	Version  uint16
	Count    int
	Frontier int
	Landings int
}

// NewCodec returns the deterministic codec snapshots are written with.
func NewCodec() (commoncbor.CBORCodec, error) {
	codec, err := commoncbor.NewCBORCodec(
		commoncbor.NewDeterministicEncOpts(),
		commoncbor.NewDeterministicDecOpts(),
	)
	if err != nil {
		return commoncbor.CBORCodec{}, err
	}
	return codec, nil
}

// Encode snapshots the non empty slots of a, in ascending index order, under
// a freshly generated ID.
func Encode[T any](codec commoncbor.CBORCodec, a *darray.Array[T]) ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: nil array", darray.ErrInvalidArgument)
	}
	id := uuid.New()
	s := Snapshot{
		ID:       id[:],
		Version:  CurrentVersion,
		Count:    uint64(a.Size()),
		Frontier: int64(a.LargestIndex()),
		Landings: uint64(a.LandingCount()),
		Entries:  make([]Entry, 0, a.Size()),
	}
	for i, v := range a.All() {
		value, err := codec.MarshalCBOR(v)
		if err != nil {
			return nil, fmt.Errorf("encoding index %d: %w", i, err)
		}
		s.Entries = append(s.Entries, Entry{Index: uint64(i), Value: value})
	}
	return codec.MarshalCBOR(s)
}

// ReadHeader decodes and checks a snapshot, returning its header.
func ReadHeader(codec commoncbor.CBORCodec, data []byte) (Header, error) {
	s, err := decodeSnapshot(codec, data)
	if err != nil {
		return Header{}, err
	}
	return headerOf(s)
}

// Decode rebuilds an array from a snapshot. opts are passed to darray.New,
// so the rebuilt array may have a different allocator or release function
// from the original. The rebuilt array has the frontier and landing count
// recorded in the header, so the header describes it as well as the array
// that was encoded.
func Decode[T any](codec commoncbor.CBORCodec, data []byte, opts ...darray.Option) (*darray.Array[T], Header, error) {
	s, err := decodeSnapshot(codec, data)
	if err != nil {
		return nil, Header{}, err
	}
	h, err := headerOf(s)
	if err != nil {
		return nil, Header{}, err
	}

	a, err := darray.New[T](append(opts[:len(opts):len(opts)], darray.WithFrontier(h.Frontier))...)
	if err != nil {
		return nil, Header{}, err
	}
	if err = a.Grow(h.Landings); err != nil {
		_ = a.Destroy()
		return nil, Header{}, err
	}
	for _, e := range s.Entries {
		var v T
		if err = codec.UnmarshalInto(e.Value, &v); err != nil {
			_ = a.Destroy()
			return nil, Header{}, fmt.Errorf("decoding index %d: %w", e.Index, err)
		}
		if err = a.Set(int(e.Index), v); err != nil {
			_ = a.Destroy()
			return nil, Header{}, err
		}
	}
	return a, h, nil
}

func decodeSnapshot(codec commoncbor.CBORCodec, data []byte) (Snapshot, error) {
	var s Snapshot
	if err := codec.UnmarshalInto(data, &s); err != nil {
		return Snapshot{}, err
	}
	if s.Version != CurrentVersion {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrVersion, s.Version)
	}
	if s.Count != uint64(len(s.Entries)) {
		return Snapshot{}, fmt.Errorf("%w: count %d, entries %d", ErrSnapshotInvalid, s.Count, len(s.Entries))
	}
	if s.Frontier < -1 {
		return Snapshot{}, fmt.Errorf("%w: frontier %d", ErrSnapshotInvalid, s.Frontier)
	}
	if s.Landings > landing.MaxLanding+1 {
		return Snapshot{}, fmt.Errorf("%w: %d landings", ErrSnapshotInvalid, s.Landings)
	}
	if s.Frontier >= 0 && s.Landings < landing.LandingsFor(uint64(s.Frontier)) {
		return Snapshot{}, fmt.Errorf("%w: %d landings can not hold frontier %d", ErrSnapshotInvalid, s.Landings, s.Frontier)
	}
	for i, e := range s.Entries {
		if e.Index > uint64(s.Frontier) || s.Frontier < 0 {
			return Snapshot{}, fmt.Errorf("%w: index %d beyond frontier %d", ErrSnapshotInvalid, e.Index, s.Frontier)
		}
		if i > 0 && e.Index <= s.Entries[i-1].Index {
			return Snapshot{}, fmt.Errorf("%w: index %d out of order", ErrSnapshotInvalid, e.Index)
		}
	}
	return s, nil
}

func headerOf(s Snapshot) (Header, error) {
	id, err := uuid.FromBytes(s.ID)
	if err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
	}
	return Header{
		ID:       id,
		Version:  s.Version,
		Count:    int(s.Count),
		Frontier: int(s.Frontier),
		Landings: int(s.Landings),
	}, nil
}
