package pptx

import (
	"bytes"
	"fmt"

	fixzip "github.com/hidez8891/zip"
)

// StripDataDescriptors rewrites the archive without data descriptor records.
// Some readers of generated presentations choke on streamed zip entries, so
// the archive is rebuilt entry by entry with the descriptor flag cleared.
func StripDataDescriptors(data []byte) ([]byte, error) {
	r, err := fixzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("unable to read generated archive: %w", err)
	}

	var buf bytes.Buffer
	w := fixzip.NewWriter(&buf)

	for _, file := range r.File {
		// unset data descriptor flag.
		file.Flags &= ^fixzip.FlagDataDescriptor

		// copy zip entry
		if err := w.CopyFile(file); err != nil {
			return nil, fmt.Errorf("unable to copy archive entry (%s): %w", file.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("unable to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
