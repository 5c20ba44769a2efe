package archive

import (
	"bytes"
	"context"
	"fmt"

	"github.com/vango-dev/shadowtree/pkg/inspect"
)

// Sink stores generation snapshots.
type Sink interface {
	Store(ctx context.Context, snap *inspect.GenerationSnapshot) error
}

// Key returns the object key of snap under prefix.
func Key(prefix string, snap *inspect.GenerationSnapshot, format inspect.Format) string {
	return fmt.Sprintf("%sroot-%d/gen-%08d.%s", prefix, snap.Root.Tag, snap.Generation, extension(format))
}

func extension(format inspect.Format) string {
	switch format {
	case inspect.FormatYAML:
		return "yaml"
	case inspect.FormatText:
		return "txt"
	default:
		return "json"
	}
}

func encode(snap *inspect.GenerationSnapshot, format inspect.Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := inspect.Encode(&buf, snap, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
