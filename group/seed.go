package group

import (
	"github.com/openvote/cryptocore/bytestr"
)

// generator derivation domain tag, "ggen"
var ggenTag = bytestr.ByteString{0x67, 0x67, 0x65, 0x6e}

// ElementSeed expands a domain seed into the per-index seed used by seeded
// generator derivation: seed || "ggen" || BE32(index).
func ElementSeed(seed bytestr.ByteString, index int) bytestr.ByteString {
	b := bytestr.NewBuilder()
	b.AppendByteString(seed)
	b.AppendByteString(ggenTag)
	b.AppendInt32(int32(index))
	return b.Build()
}
