package repositories

import "github.com/fxamacker/cbor/v2"

// Stored documents are encoded as CBOR. Deterministic encoding keeps
// byte-level comparisons in tests stable.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}

func encode(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

func decode(data []byte, v any) error {
	return cbor.Unmarshal(data, v)
}
