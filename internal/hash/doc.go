// Package hash provides the CRC32-Castagnoli checksums used to verify
// written blobs.
//
//	checksum := hash.CRC32C(data)
//
//	h := hash.NewCRC32C()
//	w := io.MultiWriter(blob, h)
//	// ... stream ...
//	fmt.Println(hash.Hex(h.Sum32()))
package hash
