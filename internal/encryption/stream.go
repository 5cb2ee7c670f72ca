package encryption

import (
	"errors"
	"fmt"
	"io"

	"github.com/jviki/xxtea/pkg/btea"
)

// padByte fills the final short block on encryption. Decryption never
// strips it: the original length is not recorded anywhere, so padding
// survives a round trip.
const padByte = '0'

// encryptStream reads plaintext from r in 512-byte blocks and writes each
// encrypted block to w. A final short block is padded up to the block size
// before encryption, and ends the stream: nothing past it is read.
func encryptStream(c *btea.Cipher, w io.Writer, r io.Reader) error {
	block := make([]byte, btea.BlockSize)

	for {
		n, err := io.ReadFull(r, block)

		switch {
		case errors.Is(err, io.EOF):
			// Input length was an exact multiple of the block size;
			// no padding block is emitted.
			return nil

		case errors.Is(err, io.ErrUnexpectedEOF):
			for i := n; i < len(block); i++ {
				block[i] = padByte
			}

			c.Encrypt(block, block)

			return writeBlock(w, block)

		case err != nil:
			return fmt.Errorf("reading input: %w", err)
		}

		c.Encrypt(block, block)

		if err := writeBlock(w, block); err != nil {
			return err
		}
	}
}

// decryptStream reads full 512-byte blocks from r and writes each decrypted
// block to w. A trailing block shorter than 512 bytes is discarded without
// being transformed or written.
func decryptStream(c *btea.Cipher, w io.Writer, r io.Reader) error {
	block := make([]byte, btea.BlockSize)

	for {
		_, err := io.ReadFull(r, block)

		switch {
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			return nil

		case err != nil:
			return fmt.Errorf("reading input: %w", err)
		}

		c.Decrypt(block, block)

		if err := writeBlock(w, block); err != nil {
			return err
		}
	}
}

// writeBlock writes one full cipher block, treating anything short of a
// complete block as fatal.
func writeBlock(w io.Writer, block []byte) error {
	n, err := w.Write(block)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPartialWrite, err)
	}

	if n != len(block) {
		return fmt.Errorf("%w: wrote %d of %d bytes", ErrPartialWrite, n, len(block))
	}

	return nil
}
