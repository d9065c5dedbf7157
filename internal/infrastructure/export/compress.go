package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/bnema/omni/internal/domain/entity"
)

// ZstdExtension marks compressed export files.
const ZstdExtension = ".zst"

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Write exports doc through exp, zstd-compressing when compressed is set.
func Write(w io.Writer, exp Exporter, doc entity.ExportDocument, compressed bool) error {
	if !compressed {
		return exp.Export(doc, w)
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}
	if err := exp.Export(doc, zw); err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}

// decompress returns data unchanged unless it starts with the zstd frame magic.
func decompress(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, zstdMagic) {
		return data, nil
	}
	zr, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
