package util

import (
	"crypto/rand"
	"math/big"
)

const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandStringBytes returns a random string of n characters drawn from a
// url- and form-safe alphabet.
func RandStringBytes(n int) string {
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(letterBytes))))
		if err != nil {
			panic(err)
		}
		b[i] = letterBytes[idx.Int64()]
	}
	return string(b)
}

func RandUint16() uint16 {
	val, err := rand.Int(rand.Reader, big.NewInt(1<<16))
	if err != nil {
		panic(err)
	}
	return uint16(val.Uint64())
}
