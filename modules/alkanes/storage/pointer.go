package storage

import (
	"context"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
)

// Pointer is a storage key built from keyword and selector segments, bound to an
// AtomicPointer. Deriving a pointer never touches the store.
type Pointer struct {
	atomic *AtomicPointer
	key    []byte
}

// Keyword appends the bytes of word to the key.
func (p Pointer) Keyword(word string) Pointer {
	return p.Select([]byte(word))
}

// Select appends b to the key.
func (p Pointer) Select(b []byte) Pointer {
	key := make([]byte, 0, len(p.key)+len(b))
	key = append(key, p.key...)
	key = append(key, b...)
	return Pointer{atomic: p.atomic, key: key}
}

// Key returns a copy of the derived key.
func (p Pointer) Key() []byte {
	key := make([]byte, len(p.key))
	copy(key, p.key)
	return key
}

// Get returns the value at the key, or an empty value if the key was never written.
func (p Pointer) Get(ctx context.Context) ([]byte, error) {
	value, err := p.atomic.get(ctx, p.key)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get %q", p.key)
	}
	return value, nil
}

func (p Pointer) Set(value []byte) {
	p.atomic.set(p.key, value)
}

func (p Pointer) GetUint128(ctx context.Context) (uint128.Uint128, error) {
	value, err := p.Get(ctx)
	if err != nil {
		return uint128.Uint128{}, errors.WithStack(err)
	}
	v, err := DecodeUint128(value)
	if err != nil {
		return uint128.Uint128{}, errors.Wrapf(err, "invalid value at %q", p.key)
	}
	return v, nil
}

func (p Pointer) SetUint128(v uint128.Uint128) {
	p.Set(EncodeUint128(v))
}

func (p Pointer) GetUint32(ctx context.Context) (uint32, error) {
	value, err := p.Get(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	v, err := DecodeUint32(value)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid value at %q", p.key)
	}
	return v, nil
}

func (p Pointer) SetUint32(v uint32) {
	p.Set(EncodeUint32(v))
}

// Lists are stored as <key>/length (uint32) and <key>/<index> for each item.

func (p Pointer) LengthKey() Pointer {
	return p.Keyword("/length")
}

func (p Pointer) SelectIndex(index uint32) Pointer {
	return p.Keyword("/" + strconv.FormatUint(uint64(index), 10))
}

func (p Pointer) Length(ctx context.Context) (uint32, error) {
	length, err := p.LengthKey().GetUint32(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get list length")
	}
	return length, nil
}

// Append adds value at the end of the list.
func (p Pointer) Append(ctx context.Context, value []byte) error {
	length, err := p.Length(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	p.SelectIndex(length).Set(value)
	p.LengthKey().SetUint32(length + 1)
	return nil
}

// Values returns all items of the list in insertion order.
func (p Pointer) Values(ctx context.Context) ([][]byte, error) {
	length, err := p.Length(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	values := make([][]byte, 0, length)
	for i := uint32(0); i < length; i++ {
		value, err := p.SelectIndex(i).Get(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get list item %d", i)
		}
		values = append(values, value)
	}
	return values, nil
}
