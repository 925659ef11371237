package pixiled

import (
	"encoding/binary"
	"math"
)

// The storage types a texture channel can hold.
type ChannelType int16

const (
	ChannelTypeUint8 ChannelType = iota
	ChannelTypeUint16
	ChannelTypeFloat32
	ChannelTypeFloat64
)

// The size in bytes of this particular channel type.
func (c ChannelType) Size() int {
	switch c {
	case ChannelTypeUint8:
		return 1
	case ChannelTypeUint16:
		return 2
	case ChannelTypeFloat32:
		return 4
	case ChannelTypeFloat64:
		return 8
	}
	return 0
}

// Encodes a Go value as the channel type. The dynamic type of val must match
// the channel type exactly.
func (c ChannelType) EncodeValue(val any) Value {
	switch c {
	case ChannelTypeUint8:
		return NewUint8Value(val.(uint8))
	case ChannelTypeUint16:
		return NewUint16Value(val.(uint16))
	case ChannelTypeFloat32:
		return NewFloat32Value(val.(float32))
	case ChannelTypeFloat64:
		return NewFloat64Value(val.(float64))
	}
	panic("pixiled: invalid channel type specification")
}

// A named per-pixel slot in a texture, e.g. one colour component. The default
// value fills the slot in every row when the store is created.
type Channel struct {
	Name    string      `json:"name"`
	Type    ChannelType `json:"type"`
	Default Value       `json:"default"`
}

// Create a channel with an already encoded default value.
func NewChannelEncoded(name string, ctype ChannelType, defval Value) Channel {
	if len(defval) != ctype.Size() {
		panic("pixiled: default value size does not match specified channel size")
	}
	return Channel{
		Name:    name,
		Type:    ctype,
		Default: defval,
	}
}

func NewChannelUint8(name string, defval uint8) Channel {
	return NewChannelEncoded(name, ChannelTypeUint8, NewUint8Value(defval))
}

func NewChannelUint16(name string, defval uint16) Channel {
	return NewChannelEncoded(name, ChannelTypeUint16, NewUint16Value(defval))
}

func NewChannelFloat32(name string, defval float32) Channel {
	return NewChannelEncoded(name, ChannelTypeFloat32, NewFloat32Value(defval))
}

func NewChannelFloat64(name string, defval float64) Channel {
	return NewChannelEncoded(name, ChannelTypeFloat64, NewFloat64Value(defval))
}

// The red, green and blue channels of a colour texture, defaulting to black.
func RGBChannels() []Channel {
	return []Channel{
		NewChannelUint8("r", 0),
		NewChannelUint8("g", 0),
		NewChannelUint8("b", 0),
	}
}

func (c Channel) Size() int {
	return c.Type.Size()
}

func (c Channel) EncodeValue(val any) Value {
	return c.Type.EncodeValue(val)
}

// One cell of a texture row, big-endian encoded.
type Value []byte

func NewUint8Value(val uint8) Value {
	return []byte{val}
}

func NewUint16Value(val uint16) Value {
	v := make([]byte, 2)
	binary.BigEndian.PutUint16(v, val)
	return v
}

func NewFloat32Value(val float32) Value {
	v := make([]byte, 4)
	binary.BigEndian.PutUint32(v, math.Float32bits(val))
	return v
}

func NewFloat64Value(val float64) Value {
	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, math.Float64bits(val))
	return v
}

func (v Value) AsUint8() uint8 {
	return v[0]
}

func (v Value) AsUint16() uint16 {
	return binary.BigEndian.Uint16(v)
}

func (v Value) AsFloat32() float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(v))
}

func (v Value) AsFloat64() float64 {
	return math.Float64frombits(binary.BigEndian.Uint64(v))
}
