package dock

import (
	"encoding/binary"
	"fmt"
)

// geometryMagic prefixes every encoded Geometry.
const geometryMagic uint32 = 0x53444247 // "SDBG"

const geometryVersion uint16 = 1

// Geometry is the frame's position and size.
type Geometry struct {
	X, Y          int32
	Width, Height int32
	Maximized     bool
}

// MarshalBinary encodes g as a fixed-size big-endian record.
func (g Geometry) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 23)
	buf = binary.BigEndian.AppendUint32(buf, geometryMagic)
	buf = binary.BigEndian.AppendUint16(buf, geometryVersion)
	for _, v := range []int32{g.X, g.Y, g.Width, g.Height} {
		buf = binary.BigEndian.AppendUint32(buf, uint32(v))
	}
	if g.Maximized {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	return buf, nil
}

// UnmarshalBinary decodes a record written by MarshalBinary.
func (g *Geometry) UnmarshalBinary(data []byte) error {
	if len(data) != 23 {
		return fmt.Errorf("%w: geometry length %d", ErrCorruptState, len(data))
	}
	if binary.BigEndian.Uint32(data) != geometryMagic {
		return fmt.Errorf("%w: bad geometry header", ErrCorruptState)
	}
	if v := binary.BigEndian.Uint16(data[4:]); v != geometryVersion {
		return fmt.Errorf("%w: geometry version %d", ErrCorruptState, v)
	}
	vals := make([]int32, 4)
	for i := range vals {
		vals[i] = int32(binary.BigEndian.Uint32(data[6+4*i:]))
	}
	g.X, g.Y, g.Width, g.Height = vals[0], vals[1], vals[2], vals[3]
	g.Maximized = data[22] == 1
	return nil
}
