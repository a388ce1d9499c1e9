package axmldecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeManifest_NilBytes(t *testing.T) {
	_, err := DecodeManifest(nil, nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDecodeManifest_UsesAttributeValueMappingFromConfig(t *testing.T) {
	b := newAxmlBuilder()
	b.startElement("", "activity", []axmlAttr{
		{Name: "launchMode", DataType: ResTypeIntDec, Data: 2},
	})
	b.endElement("", "activity")
	data := b.build()

	xmlOff, err := DecodeManifest(data, nil, Config{AttributeValueMapping: false})
	require.NoError(t, err)
	assert.Contains(t, xmlOff, `launchMode="2"`)

	xmlOn, err := DecodeManifest(data, nil, Config{AttributeValueMapping: true})
	require.NoError(t, err)
	assert.Contains(t, xmlOn, `launchMode="singleTask"`)
}

func TestDecodeManifest_PlainText(t *testing.T) {
	_, err := DecodeManifest([]byte(`<?xml version="1.0"?><manifest/>`), nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrPlainTextManifest)
}

func TestDecodeApk_MissingFile(t *testing.T) {
	_, zipErr, _, _ := DecodeApk("/nonexistent/path/does-not-exist.apk", DefaultConfig())
	assert.Error(t, zipErr)
}
