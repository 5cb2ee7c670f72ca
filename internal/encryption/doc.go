// Package encryption drives the XXTEA block cipher across whole files.
// Files are processed concurrently, each as a sequence of independent
// 512-byte blocks, with atomic output writes. Encryption pads the final
// short block with ASCII '0' bytes; decryption discards a trailing partial
// block. The output carries no header, length field or integrity check.
package encryption
