package keyhash

import (
	"encoding/binary"
	"fmt"
	"hash"
	"hash/fnv"
	"math"
	"sync"

	"github.com/goccy/go-reflect"
)

var (
	// encodersMutex guards encoders.
	encodersMutex sync.RWMutex

	// encoders caches the key encoders by type name.
	encoders = map[string]encoder{}
)

// encoder appends the binary form of a key to the buffer.
type encoder func(buf []byte, key any) []byte

// GetOrCreateKeyHash returns a FNV-1a based hash function for the given key type.
// Supported key types are integers, floats, strings and types implementing fmt.Stringer.
// It panics for any other key type.
// The returned hash is never negative.
func GetOrCreateKeyHash[K comparable]() func(K) int {
	var zero K
	enc := getOrCreateEncoder(zero)
	return func(key K) int {
		var b [16]byte
		return sum(enc(b[:0], key))
	}
}

// getOrCreateEncoder retrieves or creates an encoder for the type of the given value.
func getOrCreateEncoder(v any) encoder {
	name := reflect.TypeOf(v).String()

	encodersMutex.RLock()
	enc, ok := encoders[name]
	encodersMutex.RUnlock()
	if ok {
		return enc
	}

	encodersMutex.Lock()
	defer encodersMutex.Unlock()
	if enc, ok := encoders[name]; ok {
		return enc
	}
	enc = createEncoder(v)
	encoders[name] = enc
	return enc
}

func createEncoder(v any) encoder {
	switch v.(type) {
	case string:
		return func(buf []byte, key any) []byte {
			return append(buf, key.(string)...)
		}
	case int:
		return func(buf []byte, key any) []byte {
			return binary.BigEndian.AppendUint64(buf, uint64(key.(int)))
		}
	case int8:
		return func(buf []byte, key any) []byte {
			return append(buf, uint8(key.(int8)))
		}
	case int16:
		return func(buf []byte, key any) []byte {
			return binary.BigEndian.AppendUint16(buf, uint16(key.(int16)))
		}
	case int32:
		return func(buf []byte, key any) []byte {
			return binary.BigEndian.AppendUint32(buf, uint32(key.(int32)))
		}
	case int64:
		return func(buf []byte, key any) []byte {
			return binary.BigEndian.AppendUint64(buf, uint64(key.(int64)))
		}
	case uint:
		return func(buf []byte, key any) []byte {
			return binary.BigEndian.AppendUint64(buf, uint64(key.(uint)))
		}
	case uint8:
		return func(buf []byte, key any) []byte {
			return append(buf, key.(uint8))
		}
	case uint16:
		return func(buf []byte, key any) []byte {
			return binary.BigEndian.AppendUint16(buf, key.(uint16))
		}
	case uint32:
		return func(buf []byte, key any) []byte {
			return binary.BigEndian.AppendUint32(buf, key.(uint32))
		}
	case uint64:
		return func(buf []byte, key any) []byte {
			return binary.BigEndian.AppendUint64(buf, key.(uint64))
		}
	case float32:
		return func(buf []byte, key any) []byte {
			return binary.BigEndian.AppendUint32(buf, math.Float32bits(key.(float32)))
		}
	case float64:
		return func(buf []byte, key any) []byte {
			return binary.BigEndian.AppendUint64(buf, math.Float64bits(key.(float64)))
		}
	case fmt.Stringer:
		return func(buf []byte, key any) []byte {
			return append(buf, key.(fmt.Stringer).String()...)
		}
	default:
		panic(fmt.Sprintf("unsupported key type: %T", v))
	}
}

// hashPool is a pool for 64-bit FNV-1a hash objects.
var hashPool = sync.Pool{
	New: func() any {
		return fnv.New64a()
	},
}

// sum computes the FNV-1a hash of the given bytes, truncated to a non-negative int.
func sum(b []byte) int {
	h := hashPool.Get().(hash.Hash64)
	defer func() {
		h.Reset()
		hashPool.Put(h)
	}()
	_, _ = h.Write(b)
	return int(h.Sum64() & math.MaxInt)
}
