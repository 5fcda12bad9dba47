package crypto

import "crypto/sha256"

// AssociatedDataSize is the length of the blob returned by AssociatedData
const AssociatedDataSize = 3 * sha256.Size

// AssociatedData binds an entry's visible labels into the authentication tag.
// Each field is hashed on its own and the digests are joined in the order
// long, short, extra.
func AssociatedData(long, short, extra string) []byte {
	ad := make([]byte, 0, AssociatedDataSize)
	for _, field := range [...]string{long, short, extra} {
		sum := sha256.Sum256([]byte(field))
		ad = append(ad, sum[:]...)
	}
	return ad
}
