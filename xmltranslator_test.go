package axmldecode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXmlTranslator_SelfClosingAndNesting(t *testing.T) {
	tr := newXmlTranslator()
	tr.onNamespaceStart("android", testAndroidNS)
	tr.onStartTag("", "manifest", nil)
	tr.onStartTag("", "application", []xmlAttribute{{Namespace: testAndroidNS, Name: "label", Value: "App"}})
	tr.onEndTag("", "application")
	tr.onEndTag("", "manifest")
	tr.onNamespaceEnd("android", testAndroidNS)

	out := tr.xml()
	assert.True(t, strings.HasPrefix(out, "<?xml version=\"1.0\" encoding=\"utf-8\"?>\n"))
	assert.Contains(t, out, `<manifest xmlns:android="http://schemas.android.com/apk/res/android">`)
	assert.Contains(t, out, "\t<application android:label=\"App\" />\n")
	assert.True(t, strings.HasSuffix(out, "</manifest>\n"))
}

func TestXmlTranslator_CData(t *testing.T) {
	tr := newXmlTranslator()
	tr.onStartTag("", "root", nil)
	tr.onCData("hello & <world>")
	tr.onEndTag("", "root")

	out := tr.xml()
	assert.Contains(t, out, "hello &amp; &lt;world&gt;\n")
}

func TestEscapeXML(t *testing.T) {
	assert.Equal(t, "&amp;&lt;&gt;&quot;&apos;", escapeXML(`&<>"'`))
	assert.Equal(t, "ab", escapeXML("a\x01b")) // control chars other than tab/CR/LF dropped
	assert.Equal(t, "a\tb\nc", escapeXML("a\tb\nc"))
}

func TestNamespaceStack_PrefixLookupNewestWins(t *testing.T) {
	var ns namespaceStack
	ns.push("a", "uri1")
	ns.push("b", "uri1")
	assert.Equal(t, "b", ns.prefixByURI("uri1"))
	ns.pop("b", "uri1")
	assert.Equal(t, "a", ns.prefixByURI("uri1"))
}

func TestNamespaceStack_PendingConsumedOnce(t *testing.T) {
	var ns namespaceStack
	ns.push("a", "uri1")
	first := ns.consumePending()
	assert.Len(t, first, 1)
	second := ns.consumePending()
	assert.Len(t, second, 0)
}
