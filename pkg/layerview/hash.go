package layerview

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/gowebpki/jcs"

	"github.com/analyzere/extras/pkg/errors"
)

// canonicalJSON returns the RFC 8785 form of v, so structurally equal values
// hash identically regardless of field order or number spelling.
func canonicalJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	canon, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	return canon, nil
}

// contentHash is sha256(canonical || salt) in hex.
func contentHash(canon []byte, salt string) string {
	h := sha256.New()
	h.Write(canon)
	h.Write([]byte(salt))
	return hex.EncodeToString(h.Sum(nil))
}

// DocumentHash identifies the LayerView document independently of how it
// was serialized. Equal hashes render identical graphs for equal options.
func (d *Digraph) DocumentHash() (string, error) {
	canon, err := canonicalJSON(d.lv)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash layer view %s", d.lv.ID)
	}
	return contentHash(canon, ""), nil
}
