package sqlite

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/ncruces/go-sqlite3"
)

// encodeVector packs v as little-endian float32s.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

// decodeVector unpacks a blob written by encodeVector.
func decodeVector(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("vector blob length %d is not a multiple of 4", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return v, nil
}

// l2 returns the Euclidean distance between two encoded vectors.
func l2(a, b []byte) (float64, error) {
	if len(a) != len(b) || len(a)%4 != 0 {
		return 0, errors.New("vec_distance_l2: vectors differ in width")
	}
	var sum float64
	for i := 0; i < len(a); i += 4 {
		x := math.Float32frombits(binary.LittleEndian.Uint32(a[i:]))
		y := math.Float32frombits(binary.LittleEndian.Uint32(b[i:]))
		d := float64(x) - float64(y)
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// distanceL2 implements the SQL function vec_distance_l2(a, b).
func distanceL2(ctx sqlite3.Context, arg ...sqlite3.Value) {
	if arg[0].Type() == sqlite3.NULL || arg[1].Type() == sqlite3.NULL {
		ctx.ResultNull()
		return
	}
	d, err := l2(arg[0].RawBlob(), arg[1].RawBlob())
	if err != nil {
		ctx.ResultError(err)
		return
	}
	ctx.ResultFloat(d)
}
