package axmldecode

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTableTypeChunk builds a single TABLE_TYPE chunk with one non-complex
// INT_DEC entry at index 0, config-qualified by lang/country.
func buildTableTypeChunk(id uint8, lang, country string, value int32) []byte {
	const headerSize = 36
	const entriesStart = headerSize + 4 // one offset entry

	var entry bytes.Buffer
	binary.Write(&entry, binary.LittleEndian, uint16(8)) // entry size
	binary.Write(&entry, binary.LittleEndian, uint16(0)) // flags
	binary.Write(&entry, binary.LittleEndian, uint32(0)) // key ref
	binary.Write(&entry, binary.LittleEndian, uint16(8)) // resvalue size
	binary.Write(&entry, binary.LittleEndian, uint8(0))  // res0
	binary.Write(&entry, binary.LittleEndian, uint8(ResTypeIntDec))
	binary.Write(&entry, binary.LittleEndian, uint32(value))

	chunkSize := uint32(entriesStart + entry.Len())

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint16(ChunkTableType))
	binary.Write(&buf, binary.LittleEndian, uint16(headerSize))
	binary.Write(&buf, binary.LittleEndian, chunkSize)
	binary.Write(&buf, binary.LittleEndian, uint8(id))
	binary.Write(&buf, binary.LittleEndian, uint8(0)) // res0
	binary.Write(&buf, binary.LittleEndian, uint16(0)) // res1
	binary.Write(&buf, binary.LittleEndian, uint32(1)) // entry_count
	binary.Write(&buf, binary.LittleEndian, uint32(entriesStart))

	// ResTableConfig: size(4)+mcc(2)+mnc(2)+lang(2)+country(2)+orient(1)+touch(1)+density(2) = 16
	var lb, cb [2]byte
	copy(lb[:], lang)
	copy(cb[:], country)
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(0)) // mcc
	binary.Write(&buf, binary.LittleEndian, uint16(0)) // mnc
	buf.Write(lb[:])
	buf.Write(cb[:])
	binary.Write(&buf, binary.LittleEndian, uint8(0)) // orientation
	binary.Write(&buf, binary.LittleEndian, uint8(0)) // touchscreen
	binary.Write(&buf, binary.LittleEndian, uint16(0)) // density

	binary.Write(&buf, binary.LittleEndian, uint32(0)) // offsets[0] = 0
	buf.Write(entry.Bytes())
	return buf.Bytes()
}

func buildTablePackageChunk(id uint32, name string, typeStrings, keyStrings []string, types [][]byte) []byte {
	const headerSize = 8 + 4 + 256 + 4 + 4 + 4 + 4

	typePool := buildStringPoolChunk(typeStrings)
	keyPool := buildStringPoolChunk(keyStrings)

	typeStringsOff := uint32(headerSize)
	keyStringsOff := typeStringsOff + uint32(len(typePool))

	var tail bytes.Buffer
	tail.Write(typePool)
	tail.Write(keyPool)
	for _, tc := range types {
		tail.Write(tc)
	}
	chunkSize := uint32(headerSize) + uint32(len(typePool)) + uint32(len(keyPool))
	// chunkSize only needs to cover through the key string pool; TABLE_TYPE
	// chunks that follow are siblings read by the outer loop.

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint16(ChunkTablePackage))
	binary.Write(&buf, binary.LittleEndian, uint16(headerSize))
	binary.Write(&buf, binary.LittleEndian, chunkSize)
	binary.Write(&buf, binary.LittleEndian, id)

	nameBuf := make([]byte, 256)
	for i, r := range name {
		if i*2+1 >= 256 {
			break
		}
		binary.LittleEndian.PutUint16(nameBuf[i*2:], uint16(r))
	}
	buf.Write(nameBuf)

	binary.Write(&buf, binary.LittleEndian, typeStringsOff)
	binary.Write(&buf, binary.LittleEndian, uint32(0)) // last_public_type
	binary.Write(&buf, binary.LittleEndian, keyStringsOff)
	binary.Write(&buf, binary.LittleEndian, uint32(0)) // last_public_key
	buf.Write(tail.Bytes())
	return buf.Bytes()
}

func buildResourceTableBytes(pkg []byte) []byte {
	pool := buildStringPoolChunk(nil)

	const headerSize = 8 + 4
	chunkSize := uint32(headerSize) + uint32(len(pool)) + uint32(len(pkg))

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint16(ChunkTable))
	binary.Write(&buf, binary.LittleEndian, uint16(headerSize))
	binary.Write(&buf, binary.LittleEndian, chunkSize)
	binary.Write(&buf, binary.LittleEndian, uint32(1)) // package_count
	buf.Write(pool)
	buf.Write(pkg)
	return buf.Bytes()
}

func TestParseResourceTable_LocalePriority(t *testing.T) {
	typeChunks := [][]byte{
		buildTableTypeChunk(1, "", "", 1),     // default, no locale
		buildTableTypeChunk(1, "en", "", 2),   // bare lang
		buildTableTypeChunk(1, "en", "US", 3), // exact lang-COUNTRY
	}
	pkg := buildTablePackageChunk(1, "pkg", []string{"string"}, []string{"app_name"}, typeChunks)
	data := buildResourceTableBytes(pkg)

	table, err := ParseResourceTable(data)
	require.NoError(t, err)

	const resID = (1 << 24) | (1 << 16) | 0

	exact, ok := table.SelectEntry(resID, "en-US")
	require.True(t, ok)
	assert.Equal(t, uint32(3), exact.Value.Data)

	bareLang, ok := table.SelectEntry(resID, "en")
	require.True(t, ok)
	assert.Equal(t, uint32(2), bareLang.Value.Data)

	// A requested locale with no exact or bare-lang match falls back to the
	// locale-less default candidate.
	fallback, ok := table.SelectEntry(resID, "fr-FR")
	require.True(t, ok)
	assert.Equal(t, uint32(1), fallback.Value.Data)

	assert.Equal(t, "string", exact.TypeName)
	assert.Equal(t, "app_name", exact.Key)
}

func TestParseResourceTable_EmptyInput(t *testing.T) {
	table, err := ParseResourceTable(nil)
	require.NoError(t, err)
	_, ok := table.SelectEntry(0x7f010000, "")
	assert.False(t, ok)
}

func TestResourceTable_AttributeName(t *testing.T) {
	typeChunks := [][]byte{buildTableTypeChunk(1, "", "", 0)}
	pkg := buildTablePackageChunk(1, "pkg", []string{"attr"}, []string{"myAttr"}, typeChunks)
	data := buildResourceTableBytes(pkg)

	table, err := ParseResourceTable(data)
	require.NoError(t, err)

	const resID = (1 << 24) | (1 << 16) | 0
	name, ok := table.AttributeName(resID)
	require.True(t, ok)
	assert.Equal(t, "myAttr", name)
}

func TestSplitLocale(t *testing.T) {
	lang, langCountry := splitLocale("en-US")
	assert.Equal(t, "en", lang)
	assert.Equal(t, "en-US", langCountry)

	lang, langCountry = splitLocale("en")
	assert.Equal(t, "en", lang)
	assert.Equal(t, "en", langCountry)

	lang, langCountry = splitLocale("")
	assert.Equal(t, "", lang)
	assert.Equal(t, "", langCountry)
}
