package axmldecode

import "errors"

// Sentinel errors for the decode error kinds in spec.md §7. Wrap these with
// fmt.Errorf("...: %w", ErrXxx) to add context; errors.Is keeps working
// through the wrap chain.
var (
	// ErrTruncated means fewer bytes remain than a read requested.
	ErrTruncated = errors.New("axmldecode: truncated")

	// ErrOverflow means an unsigned value or seek target exceeds the
	// addressable range of the underlying buffer.
	ErrOverflow = errors.New("axmldecode: overflow")

	// ErrUnexpectedChunkType means a chunk type was encountered outside
	// the set a given parsing context accepts.
	ErrUnexpectedChunkType = errors.New("axmldecode: unexpected chunk type")

	// ErrMissingStringPool means no STRING_POOL chunk followed the XML
	// sentinel chunk.
	ErrMissingStringPool = errors.New("axmldecode: missing string pool")

	// ErrManifestNotFound means an APK archive has no AndroidManifest.xml
	// entry.
	ErrManifestNotFound = errors.New("axmldecode: AndroidManifest.xml not found")

	// ErrInvalidArgument means a required input was nil or otherwise
	// malformed at the API boundary.
	ErrInvalidArgument = errors.New("axmldecode: invalid argument")

	// ErrPlainTextManifest means the manifest bytes look like plaintext
	// XML rather than the compiled binary form.
	ErrPlainTextManifest = errors.New("axmldecode: manifest is plaintext, binary form expected")
)
