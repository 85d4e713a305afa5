package shareparse

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"sort"
	"strconv"

	"github.com/keyquorum/share-recovery-backend/interfaces"
)

// keyInfo is the "keys" member of a share-set document.
type keyInfo struct {
	N int `json:"n"`
	K int `json:"k"`
}

// encodedShare is one numbered share member: a value string in the stated
// numeric base. Base is a string in the wire format.
type encodedShare struct {
	Base  string `json:"base"`
	Value string `json:"value"`
}

// ParseShareSet decodes and validates a share-set document.
// Returns an error wrapping ErrMalformedDocument for structural problems and
// ErrInvalidParameters for threshold or index violations.
func ParseShareSet(data []byte) (*interfaces.ShareSet, error) {
	// Top-level keys are dynamic ("keys" plus the share indices), so decode
	// into raw messages first.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrMalformedDocument, err)
	}

	keysRaw, ok := raw["keys"]
	if !ok {
		return nil, fmt.Errorf("%w: missing \"keys\" member", interfaces.ErrMalformedDocument)
	}
	var keys keyInfo
	if err := json.Unmarshal(keysRaw, &keys); err != nil {
		return nil, fmt.Errorf("%w: invalid \"keys\" member: %v", interfaces.ErrMalformedDocument, err)
	}

	indices := make([]int, 0, len(raw)-1)
	for key := range raw {
		if key == "keys" {
			continue
		}
		x, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("%w: share key %q is not an integer", interfaces.ErrMalformedDocument, key)
		}
		indices = append(indices, x)
	}
	sort.Ints(indices)

	if len(indices) != keys.N {
		return nil, fmt.Errorf("%w: document declares n=%d but contains %d shares", interfaces.ErrMalformedDocument, keys.N, len(indices))
	}

	shares := make([]interfaces.Share, 0, len(indices))
	for _, x := range indices {
		y, err := decodeShareValue(raw[strconv.Itoa(x)], x)
		if err != nil {
			return nil, err
		}
		shares = append(shares, interfaces.Share{X: x, Y: y})
	}

	set, err := interfaces.NewShareSet(shares, keys.K)
	if err != nil {
		return nil, err
	}
	return set, nil
}

// ParseShareSetFile reads and decodes a share-set document from disk.
func ParseShareSetFile(path string) (*interfaces.ShareSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read share-set document %s: %w", path, err)
	}
	set, err := ParseShareSet(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// decodeShareValue decodes one numbered member into an arbitrary-precision
// integer using its stated base.
func decodeShareValue(raw json.RawMessage, x int) (*big.Int, error) {
	var enc encodedShare
	if err := json.Unmarshal(raw, &enc); err != nil {
		return nil, fmt.Errorf("%w: invalid share object for index %d: %v", interfaces.ErrMalformedDocument, x, err)
	}

	base, err := strconv.Atoi(enc.Base)
	if err != nil {
		return nil, fmt.Errorf("%w: share %d has non-numeric base %q", interfaces.ErrMalformedDocument, x, enc.Base)
	}
	if base < 2 || base > 36 {
		return nil, fmt.Errorf("%w: share %d has base %d outside 2..36", interfaces.ErrMalformedDocument, x, base)
	}

	if enc.Value == "" {
		return nil, fmt.Errorf("%w: share %d has an empty value", interfaces.ErrMalformedDocument, x)
	}
	y, ok := new(big.Int).SetString(enc.Value, base)
	if !ok {
		return nil, fmt.Errorf("%w: share %d value %q is not valid in base %d", interfaces.ErrMalformedDocument, x, enc.Value, base)
	}
	return y, nil
}
