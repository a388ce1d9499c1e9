package axmldecode

import "strings"

// xmlAttribute is one already-rendered attribute ready for emission.
type xmlAttribute struct {
	Namespace string
	Name      string
	Value     string
}

type xmlNamespace struct {
	Prefix string
	URI    string
}

// namespaceStack tracks active xmlns bindings plus the ones declared since
// the last start tag but not yet flushed into it, per spec.md §4.3. Prefix
// lookups scan newest-to-oldest so a shadowing declaration wins.
type namespaceStack struct {
	stack   []xmlNamespace
	pending []xmlNamespace
}

func (n *namespaceStack) push(prefix, uri string) {
	if prefix == "" || uri == "" {
		return
	}
	ns := xmlNamespace{Prefix: prefix, URI: uri}
	n.stack = append(n.stack, ns)
	n.pending = append(n.pending, ns)
}

func (n *namespaceStack) pop(prefix, uri string) {
	if prefix == "" || uri == "" {
		return
	}
	for i := len(n.stack) - 1; i >= 0; i-- {
		if n.stack[i].Prefix == prefix && n.stack[i].URI == uri {
			n.stack = append(n.stack[:i], n.stack[i+1:]...)
			return
		}
	}
}

func (n *namespaceStack) prefixByURI(uri string) string {
	if uri == "" {
		return ""
	}
	for i := len(n.stack) - 1; i >= 0; i-- {
		if n.stack[i].URI == uri {
			return n.stack[i].Prefix
		}
	}
	return ""
}

func (n *namespaceStack) consumePending() []xmlNamespace {
	out := n.pending
	n.pending = nil
	return out
}

// xmlTranslator accumulates the textual XML rendering of a chunk stream as
// events arrive, matching the Java XmlTranslator: tab indentation,
// self-closing empty elements, and the fixed escape set. encoding/xml's
// Encoder can't be reused here since it does not produce this exact form
// (different self-close behavior, different indentation, no control over
// the escape set).
type xmlTranslator struct {
	sb          strings.Builder
	namespaces  namespaceStack
	isLastStart bool
	indent      int
}

func newXmlTranslator() *xmlTranslator {
	t := &xmlTranslator{}
	t.sb.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	return t
}

func (t *xmlTranslator) onStartTag(namespace, name string, attrs []xmlAttribute) {
	if t.isLastStart {
		t.sb.WriteString(">\n")
	}
	t.appendIndent()
	t.sb.WriteByte('<')
	if prefix := t.namespaces.prefixByURI(namespace); prefix != "" {
		t.sb.WriteString(prefix)
		t.sb.WriteByte(':')
	}
	t.sb.WriteString(name)

	for _, ns := range t.namespaces.consumePending() {
		t.sb.WriteString(" xmlns:")
		t.sb.WriteString(ns.Prefix)
		t.sb.WriteString("=\"")
		t.sb.WriteString(ns.URI)
		t.sb.WriteByte('"')
	}

	for _, a := range attrs {
		t.sb.WriteByte(' ')
		if prefix := t.namespaces.prefixByURI(a.Namespace); prefix != "" {
			t.sb.WriteString(prefix)
			t.sb.WriteByte(':')
		} else if a.Namespace != "" {
			t.sb.WriteString(a.Namespace)
			t.sb.WriteByte(':')
		}
		t.sb.WriteString(a.Name)
		t.sb.WriteString("=\"")
		t.sb.WriteString(escapeXML(a.Value))
		t.sb.WriteByte('"')
	}

	t.isLastStart = true
	t.indent++
}

func (t *xmlTranslator) onEndTag(namespace, name string) {
	t.indent--
	if t.isLastStart {
		t.sb.WriteString(" />\n")
	} else {
		t.appendIndent()
		t.sb.WriteString("</")
		if prefix := t.namespaces.prefixByURI(namespace); prefix != "" {
			t.sb.WriteString(prefix)
			t.sb.WriteByte(':')
		}
		t.sb.WriteString(name)
		t.sb.WriteString(">\n")
	}
	t.isLastStart = false
}

func (t *xmlTranslator) onCData(data string) {
	if t.isLastStart {
		t.sb.WriteString(">\n")
		t.isLastStart = false
	}
	t.appendIndent()
	t.sb.WriteString(escapeXML(data))
	t.sb.WriteByte('\n')
}

func (t *xmlTranslator) onNamespaceStart(prefix, uri string) { t.namespaces.push(prefix, uri) }
func (t *xmlTranslator) onNamespaceEnd(prefix, uri string)   { t.namespaces.pop(prefix, uri) }

func (t *xmlTranslator) appendIndent() {
	for i := 0; i < t.indent; i++ {
		t.sb.WriteByte('\t')
	}
}

func (t *xmlTranslator) xml() string { return t.sb.String() }

// escapeXML escapes the five predefined XML entities and drops control
// characters other than tab/newline/carriage-return, matching the original
// decoder's escape table exactly (not encoding/xml's, which additionally
// escapes non-ASCII and uses numeric character references).
func escapeXML(value string) string {
	var sb strings.Builder
	sb.Grow(len(value) + 16)
	for _, c := range value {
		switch c {
		case '&':
			sb.WriteString("&amp;")
		case '<':
			sb.WriteString("&lt;")
		case '>':
			sb.WriteString("&gt;")
		case '"':
			sb.WriteString("&quot;")
		case '\'':
			sb.WriteString("&apos;")
		default:
			if c < 0x20 && c != '\t' && c != '\n' && c != '\r' {
				continue
			}
			sb.WriteRune(c)
		}
	}
	return sb.String()
}
