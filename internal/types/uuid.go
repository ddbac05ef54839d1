package types

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex sub_01HZX3Q8K9M2N5P7R4T6V8W0YA
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

const (
	UUID_PREFIX_ACCOUNT        = "acct"
	UUID_PREFIX_BUNDLE         = "bndl"
	UUID_PREFIX_SUBSCRIPTION   = "sub"
	UUID_PREFIX_TRANSITION     = "trn"
	UUID_PREFIX_BLOCKING_STATE = "blk"
	UUID_PREFIX_TAG            = "tag"
)
