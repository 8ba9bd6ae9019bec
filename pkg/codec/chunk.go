package codec

import "errors"

// Framing magics.
const (
	BeginMagic      uint32 = 0xAAAAAAAA
	SeparatorMagic  uint32 = 0xBBBBBBBB
	EndMagic        uint32 = 0xCCCCCCCC
	ArrayBeginMagic uint32 = 0xDDDDDDDD
	ArrayEndMagic   uint32 = 0xEEEEEEEE
	CompressedMagic uint32 = 0xFFFFFFFF
)

// Kind identifies the role of a chunk. The tag is semantically 8-bit but
// stored as a 32-bit word.
type Kind uint32

// Chunk kinds.
const (
	KindWrapper           Kind = 0x00
	KindDatabaseTables    Kind = 0x01
	KindDatabaseFlags     Kind = 0x02
	KindTable             Kind = 0x10
	KindRowCount          Kind = 0x11
	KindColumnDefinitions Kind = 0x12
	KindTableID           Kind = 0x15
	KindTableFlags        Kind = 0x16
	KindColumn            Kind = 0x20
	KindColumnDataType    Kind = 0x21
	KindColumnValues      Kind = 0x22
	KindColumnBlobData    Kind = 0x23
	KindColumnIndex       Kind = 0x24
)

var kindNames = map[Kind]string{
	KindWrapper:           "WRAPPER",
	KindDatabaseTables:    "DATABASE_TABLES",
	KindDatabaseFlags:     "DATABASE_FLAGS",
	KindTable:             "TABLE",
	KindRowCount:          "ROW_COUNT",
	KindColumnDefinitions: "COLUMN_DEFINITIONS",
	KindTableID:           "TABLE_ID",
	KindTableFlags:        "TABLE_FLAGS",
	KindColumn:            "COLUMN",
	KindColumnDataType:    "COLUMN_DATA_TYPE",
	KindColumnValues:      "COLUMN_VALUES",
	KindColumnBlobData:    "COLUMN_BLOB_DATA",
	KindColumnIndex:       "COLUMN_INDEX",
}

// Valid reports whether the kind is one of the enumerated chunk kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// Framing errors.
var (
	ErrBadMagic         = errors.New("codec: bad magic")
	ErrShortRead        = errors.New("codec: read past end of input")
	ErrTruncatedChunk   = errors.New("codec: chunk size overruns parent")
	ErrUnknownChunkKind = errors.New("codec: unknown chunk kind")
	ErrUnclosedChunk    = errors.New("codec: chunk left open at finalize")
)

// Chunk describes one parsed chunk header. The body occupies the bytes
// between the separator magic and Limit; Limit is the offset of the end
// magic.
type Chunk struct {
	Kind           Kind
	Description    string
	HasDescription bool

	start int
	limit int
}

// Limit returns the absolute offset of the chunk's end magic. The body,
// including its trailing pad, ends there.
func (c *Chunk) Limit() int {
	return c.limit
}

// Size returns the chunk's declared total size in bytes.
func (c *Chunk) Size() int {
	return c.limit + 4 - c.start
}
