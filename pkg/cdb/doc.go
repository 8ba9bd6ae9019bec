// Package cdb decodes and encodes Cyanide database (CDB) files.
//
// A CDB file is an optionally zlib-framed chunk stream holding one WRAPPER
// chunk described "cyanide database". The wrapper carries one
// DATABASE_FLAGS chunk (fixed value 274) and one DATABASE_TABLES chunk, an
// array of named tables. Each table carries its numeric identifier, a row
// count, a flags word and an array of columns; each column carries its
// original schema position, a data-type enumerant, a fixed-stride values
// chunk and, for strings and numeric lists, a variable-width blob chunk.
//
// Decode materializes the stream into a Database of ordered tables and
// typed cells. Encode performs the inverse and always emits the compressed
// framing. For an unmodified database the decompressed output of Encode is
// byte-identical to the decompressed input.
package cdb
