// Package btea implements the corrected block TEA cipher (commonly written
// XXTEA), as described by David J. Wheeler and Roger M. Needham in
// "Correction to XTEA" (Computer Laboratory, Cambridge University, October
// 1998).
//
// Unlike a conventional block cipher, block TEA mixes an entire block of
// 32-bit words in every round, so the block length is a parameter of the
// algorithm rather than a fixed property. This package fixes the byte-level
// block size at 512 bytes (128 words), the unit used by the file format it
// was written for, and additionally exposes the variable-length word
// transform for other block lengths.
//
// Byte order is part of the wire format: block words are assembled from
// bytes in little-endian order, which reproduces bit-for-bit the output of
// the reference C implementation on little-endian hosts. Key words are taken
// in big-endian order, matching the four 8-digit groups of the hexadecimal
// key format.
package btea

import (
	"crypto/cipher"
	"encoding/binary"
	"errors"
)

const (
	// BlockSize is the size of one cipher block, in bytes.
	BlockSize = 512

	// KeySize is the size of a key, in bytes.
	KeySize = 16

	// blockWords is the number of 32-bit words in one 512-byte block.
	blockWords = BlockSize / 4

	// delta is the key schedule constant.
	delta = 0x9e3779b9
)

// Cipher is an instance of the block TEA cipher keyed with a particular
// 128-bit key. It implements cipher.Block over 512-byte blocks.
type Cipher struct {
	k [4]uint32
}

var _ cipher.Block = (*Cipher)(nil)

// NewCipher returns a Cipher for the given key. The key argument must be
// KeySize bytes long.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, errors.New("btea: incorrect key size")
	}

	c := &Cipher{}
	for i := range c.k {
		c.k[i] = binary.BigEndian.Uint32(key[i*4:])
	}

	return c, nil
}

// BlockSize returns the cipher's block size, 512 bytes.
func (c *Cipher) BlockSize() int { return BlockSize }

// Encrypt encrypts the first 512-byte block in src into dst.
// Dst and src may refer to the same memory.
func (c *Cipher) Encrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("btea: input not full block")
	}

	if len(dst) < BlockSize {
		panic("btea: output not full block")
	}

	var v [blockWords]uint32

	loadWords(&v, src)
	c.EncryptWords(v[:])
	storeWords(dst, &v)
}

// Decrypt decrypts the first 512-byte block in src into dst.
// Dst and src may refer to the same memory.
func (c *Cipher) Decrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("btea: input not full block")
	}

	if len(dst) < BlockSize {
		panic("btea: output not full block")
	}

	var v [blockWords]uint32

	loadWords(&v, src)
	c.DecryptWords(v[:])
	storeWords(dst, &v)
}

// EncryptWords applies the forward transform in place to a block of any
// length n >= 1. The cycle count is 6 + 52/n, so short blocks are mixed
// more often. It panics on an empty block, for which the algorithm is
// undefined.
func (c *Cipher) EncryptWords(v []uint32) {
	n := len(v)
	if n == 0 {
		panic("btea: empty block")
	}

	var sum uint32

	z := v[n-1]

	for q := rounds(n); q > 0; q-- {
		sum += delta
		e := sum >> 2 & 3

		for p := 0; p < n-1; p++ {
			y := v[p+1]
			v[p] += mix(sum, y, z, uint32(p), e, &c.k)
			z = v[p]
		}

		// Wrap around: the last word mixes with the first.
		y := v[0]
		v[n-1] += mix(sum, y, z, uint32(n-1), e, &c.k)
		z = v[n-1]
	}
}

// DecryptWords applies the inverse transform in place to a block of any
// length n >= 1, undoing EncryptWords round for round on blocks of two or
// more words. A single-word block mixes with itself and does not invert;
// both directions remain deterministic. It panics on an empty block.
func (c *Cipher) DecryptWords(v []uint32) {
	n := len(v)
	if n == 0 {
		panic("btea: empty block")
	}

	y := v[0]

	// sum starts at rounds*delta and steps down to exactly zero.
	for sum := uint32(rounds(n)) * delta; sum != 0; sum -= delta {
		e := sum >> 2 & 3

		for p := n - 1; p > 0; p-- {
			z := v[p-1]
			v[p] -= mix(sum, y, z, uint32(p), e, &c.k)
			y = v[p]
		}

		z := v[n-1]
		v[0] -= mix(sum, y, z, 0, e, &c.k)
		y = v[0]
	}
}

// rounds returns the cycle count for an n-word block.
func rounds(n int) int { return 6 + 52/n }

// mix combines the neighbouring words y and z with the round accumulator and
// one of the four key words, selected by the low bits of the word position p
// and the per-round selector e. All arithmetic wraps modulo 2^32.
func mix(sum, y, z, p, e uint32, k *[4]uint32) uint32 {
	return ((z>>5 ^ y<<2) + (y>>3 ^ z<<4)) ^ ((sum ^ y) + (k[p&3^e] ^ z))
}

func loadWords(v *[blockWords]uint32, src []byte) {
	for i := range v {
		v[i] = binary.LittleEndian.Uint32(src[i*4:])
	}
}

func storeWords(dst []byte, v *[blockWords]uint32) {
	for i, w := range v {
		binary.LittleEndian.PutUint32(dst[i*4:], w)
	}
}
