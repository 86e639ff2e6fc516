package wad

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	gzip "github.com/klauspost/pgzip"
	"github.com/zeebo/xxh3"
)

const (
	// MaxChunkSize は展開後のチャンクサイズの上限
	MaxChunkSize = 1 << 30

	// maxPrealloc は展開前に確保するバッファの上限。これを超える分は展開しながら伸ばす
	maxPrealloc = 64 << 20
)

// zstdMagic はzstdフレームの先頭4バイト
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// Decoder はチャンクのデータを読み込んで展開します。
// ソースをシークするため、同時に複数のgoroutineから使用しないでください
type Decoder struct {
	wad            *Wad
	zstd           *zstd.Decoder
	verifyChecksum bool
}

// Decoder は新しいDecoderを作成します
func (w *Wad) Decoder() *Decoder {
	return &Decoder{wad: w}
}

// SetVerifyChecksums はチャンクのチェックサム検証を有効にします（3.1以降のみ有効）
func (d *Decoder) SetVerifyChecksums(enabled bool) {
	d.verifyChecksum = enabled
}

// Close は内部のzstdデコーダを解放します
func (d *Decoder) Close() {
	if d.zstd != nil {
		d.zstd.Close()
		d.zstd = nil
	}
}

// LoadChunkRaw はチャンクの格納データをそのまま読み込みます
func (d *Decoder) LoadChunkRaw(chunk Chunk) ([]byte, error) {
	source := d.wad.source
	if _, err := source.Seek(int64(chunk.DataOffset), io.SeekStart); err != nil {
		return nil, err
	}

	raw := make([]byte, chunk.CompressedSize)
	if _, err := io.ReadFull(source, raw); err != nil {
		return nil, fmt.Errorf("%w: %016x: %w", ErrTruncated, chunk.PathHash, err)
	}

	if d.verifyChecksum && d.wad.hasChunkChecksums() && chunk.Checksum != 0 {
		if sum := xxh3.Hash(raw); sum != chunk.Checksum {
			return nil, fmt.Errorf("%w: %016x (期待値 %016x, 実際 %016x)", ErrChecksumMismatch, chunk.PathHash, chunk.Checksum, sum)
		}
	}

	return raw, nil
}

// LoadChunkDecompressed はチャンクを読み込んで展開したデータを返します
func (d *Decoder) LoadChunkDecompressed(chunk Chunk) ([]byte, error) {
	if chunk.UncompressedSize > MaxChunkSize {
		return nil, fmt.Errorf("%w: %016x: %d バイト", ErrChunkTooLarge, chunk.PathHash, chunk.UncompressedSize)
	}

	raw, err := d.LoadChunkRaw(chunk)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch chunk.Compression {
	case CompressionNone:
		data = raw
	case CompressionGzip:
		data, err = decompressGzip(raw, chunk.UncompressedSize)
	case CompressionZstd:
		data, err = d.decompressZstd(raw, nil, chunk.UncompressedSize)
	case CompressionZstdMulti:
		data, err = d.decompressZstdMulti(raw, chunk.UncompressedSize)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCompression, chunk.Compression)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", chunk.Compression, err)
	}

	if uint32(len(data)) != chunk.UncompressedSize {
		return nil, fmt.Errorf("%w: %d != %d", ErrSizeMismatch, len(data), chunk.UncompressedSize)
	}

	return data, nil
}

// decompressGzip はgzipで圧縮されたデータを展開します
func decompressGzip(raw []byte, size uint32) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer gr.Close()

	// 申告サイズを超えた分はサイズ検証で弾くため1バイトだけ余分に読む
	var buf bytes.Buffer
	buf.Grow(preallocSize(size))
	if _, err := io.Copy(&buf, io.LimitReader(gr, int64(size)+1)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decompressZstd はzstdフレームを展開してdstの後ろに追加します
func (d *Decoder) decompressZstd(raw, dst []byte, size uint32) ([]byte, error) {
	if d.zstd == nil {
		zd, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderMaxMemory(MaxChunkSize))
		if err != nil {
			return nil, err
		}
		d.zstd = zd
	}

	if dst == nil {
		dst = make([]byte, 0, preallocSize(size))
	}
	return d.zstd.DecodeAll(raw, dst)
}

// decompressZstdMulti は非圧縮のサブチャンクに続くzstdフレームを展開します
func (d *Decoder) decompressZstdMulti(raw []byte, size uint32) ([]byte, error) {
	idx := bytes.Index(raw, zstdMagic)
	if idx < 0 {
		return raw, nil
	}

	dst := make([]byte, idx, max(idx, preallocSize(size)))
	copy(dst, raw[:idx])
	return d.decompressZstd(raw[idx:], dst, size)
}

// preallocSize は展開先バッファの初期容量を返します
func preallocSize(size uint32) int {
	return int(min(size, maxPrealloc))
}
