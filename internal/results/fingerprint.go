package results

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// Fingerprint returns a content identifier for rs: a CIDv1 with the raw
// codec over the sha2-256 multihash of its marshaled document. Equal sets
// share a fingerprint.
func Fingerprint(rs *ResultSet) (cid.Cid, error) {
	data, err := Marshal(rs)
	if err != nil {
		return cid.Undef, err
	}
	return fingerprintBytes(data)
}

func fingerprintBytes(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, fmt.Errorf("hashing result document: %w", err)
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}
