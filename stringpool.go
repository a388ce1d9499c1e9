package axmldecode

import "fmt"

// StringPool is the decoded form of a STRING_POOL chunk: every entry
// resolved up front, shared by both the XML parser and the resource table
// parser (spec.md §9 "shared helpers").
type StringPool struct {
	strings []string
}

// Get returns the string at idx, or ok=false if idx is out of range (the
// sentinel index -1 used throughout the binary format for "no value").
func (p *StringPool) Get(idx int) (string, bool) {
	if idx < 0 || idx >= len(p.strings) {
		return "", false
	}
	return p.strings[idx], true
}

// Len returns the number of strings in the pool.
func (p *StringPool) Len() int { return len(p.strings) }

// decodeStringPool decodes the string table that follows a STRING_POOL
// header, per spec.md §4.1/§4.3. String offsets are relative to h.Start()
// (the absolute offset of the STRING_POOL chunk's chunk_type field) plus
// h.StringsStart.
//
// Per the duplicate-offset-sharing invariant (spec.md §3/§8): when two
// entries in the offset table carry the same offset value, the second
// reuses the first's already-decoded string rather than re-decoding bytes
// at that offset a second time. Decoding (not just offset equality) is what
// gets cached, since two distinct offsets can legitimately decode to equal
// strings without being "the same" entry for this purpose.
// maxStringPoolEntries bounds the offset-table allocation below so a
// crafted chunk claiming an enormous string_count can't force a
// multi-gigabyte allocation before a single byte of it is validated.
const maxStringPoolEntries = 2 * 1024 * 1024

func decodeStringPool(r *ByteReader, h StringPoolHeader) (*StringPool, error) {
	if h.StringCount > maxStringPoolEntries {
		return nil, fmt.Errorf("string pool: too many strings (%d)", h.StringCount)
	}
	offsets := make([]uint32, h.StringCount)
	for i := range offsets {
		v, err := u32(r)
		if err != nil {
			return nil, fmt.Errorf("string pool offset %d: %w", i, err)
		}
		offsets[i] = v
	}

	stringsStartAbs := h.Start() + int(h.StringsStart)

	out := &StringPool{strings: make([]string, len(offsets))}
	decoded := make(map[uint32]string, len(offsets))
	for i, off := range offsets {
		if s, ok := decoded[off]; ok {
			out.strings[i] = s
			continue
		}
		if err := r.Seek(stringsStartAbs + int(off)); err != nil {
			return nil, fmt.Errorf("string pool entry %d at offset %d: %w", i, off, err)
		}
		s, err := r.ReadString(h.IsUTF8())
		if err != nil {
			return nil, fmt.Errorf("string pool entry %d at offset %d: %w", i, off, err)
		}
		s = validUTF8OrReplace(s)
		decoded[off] = s
		out.strings[i] = s
	}

	if err := r.Seek(h.Start() + int(h.ChunkSize)); err != nil {
		return nil, fmt.Errorf("string pool end: %w", err)
	}
	return out, nil
}
