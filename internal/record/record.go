// Package record implements the on-disk framing for a single key-value pair.
// A record is encoded as "<decimal key>,<value bytes>" followed by a single
// delimiter byte. The value may contain commas; only the first comma separates
// the key from the value.
package record

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// Delimiter terminates every encoded record on disk.
const Delimiter byte = 0x00

var (
	// ErrCorruptRecord indicates a record that cannot be decoded: the comma
	// separator is missing or the key prefix is not a valid integer.
	ErrCorruptRecord = errors.New("corrupt record")

	// ErrDelimiterInValue indicates a value containing the delimiter byte.
	// Such values are rejected rather than escaped, since the framing has no
	// way to represent them.
	ErrDelimiterInValue = errors.New("value contains the record delimiter")
)

// Encode frames a key-value pair as "<key>,<value><delimiter>".
// It returns ErrDelimiterInValue if the value contains the delimiter byte.
func Encode(key int64, value []byte) ([]byte, error) {
	if bytes.IndexByte(value, Delimiter) >= 0 {
		return nil, ErrDelimiterInValue
	}

	buf := make([]byte, 0, 21+len(value)+1)
	buf = strconv.AppendInt(buf, key, 10)
	buf = append(buf, ',')
	buf = append(buf, value...)
	buf = append(buf, Delimiter)
	return buf, nil
}

// Decode parses the bytes of one record, delimiter excluded, and returns the
// key and a freshly allocated copy of the value. It returns ErrCorruptRecord
// if the separator is missing or the key does not parse as an integer.
func Decode(data []byte) (int64, []byte, error) {
	comma := bytes.IndexByte(data, ',')
	if comma < 0 {
		return 0, nil, fmt.Errorf("%w: missing separator", ErrCorruptRecord)
	}

	key, err := strconv.ParseInt(string(data[:comma]), 10, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: bad key %q", ErrCorruptRecord, data[:comma])
	}

	value := make([]byte, len(data)-comma-1)
	copy(value, data[comma+1:])
	return key, value, nil
}
