// Package codec implements the chunk framing layer of the Cyanide database
// file format.
//
// Every chunk is laid out as:
//
//	[BeginMagic(4)][Size(4)][Kind(4)][Flags(4)][HasDescription(4)]
//	[DescriptionLength(4)?][Description+NUL?][pad][SeparatorMagic(4)]
//	[body][pad][EndMagic(4)]
//
// Fields:
//   - Size: total bytes from the begin magic through the end magic inclusive,
//     covering all nested chunks (little-endian, like every integer here)
//   - Kind: one of the Kind enumerants
//   - Flags: reserved, always zero
//   - Description: optional NUL-terminated UTF-8 name; the length field
//     includes the NUL
//
// Positions after the header and after the body are padded to 4-byte
// alignment. Chunks nest: a parent's body is a sequence of child chunks,
// sometimes wrapped in the array pattern
//
//	[ArrayBeginMagic(4)][Count(4)][Count chunks][ArrayEndMagic(4)]
//
// Because a chunk's size covers its descendants it is unknown when the
// header is written. Writer therefore emits a placeholder, keeps a stack of
// open chunks and back-patches every size field in Finalize.
package codec
