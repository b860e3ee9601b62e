package registry

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/regspec-tools/regspec-go/pkg/model"
)

// snapEncMode is the CBOR encoder mode for snapshot blobs.
// Deterministic: identical snapshots encode to identical bytes.
var snapEncMode cbor.EncMode

// snapDecMode is the CBOR decoder mode for snapshot blobs.
var snapDecMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	snapEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create snapshot CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
	}
	snapDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create snapshot CBOR decoder mode: %v", err))
	}
}

// EncodeSnapshot encodes a snapshot to deterministic CBOR bytes.
func EncodeSnapshot(snap *model.SpecSnapshot) ([]byte, error) {
	return snapEncMode.Marshal(snap)
}

// DecodeSnapshot decodes CBOR bytes into a snapshot.
func DecodeSnapshot(data []byte) (*model.SpecSnapshot, error) {
	var snap model.SpecSnapshot
	if err := snapDecMode.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &snap, nil
}
