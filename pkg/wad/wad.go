// Package wad はWADアーカイブ（.wad.clientファイル）を読み込むためのパッケージです。
//
// サポートするバージョン:
//   - 1.x: チェックサムなしの24バイトエントリ
//   - 2.x: ECDSA署名（83バイト）付き、32バイトエントリ
//   - 3.x: ECDSA署名（256バイト）付き、32バイトエントリ
//
// 基本的な使い方:
//
//	w, err := wad.Open("Aatrox.wad.client")
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	decoder := w.Decoder()
//	defer decoder.Close()
//	for _, chunk := range w.SortedChunks() {
//	    data, err := decoder.LoadChunkDecompressed(chunk)
//	    // データを処理...
//	}
package wad

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"
)

const (
	// Magic はWADファイルの先頭2バイト
	Magic = "RW"

	v2SignatureSize = 83
	v3SignatureSize = 256
	v1EntrySize     = 24
	v2EntrySize     = 32
	v3HeaderSize    = 4 + v3SignatureSize + 8 + 4
)

// CompressionType はチャンクの格納形式
type CompressionType uint8

const (
	CompressionNone CompressionType = iota
	CompressionGzip
	CompressionSatellite
	CompressionZstd
	CompressionZstdMulti
)

// String は格納形式の名前を返します
func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionSatellite:
		return "satellite"
	case CompressionZstd:
		return "zstd"
	case CompressionZstdMulti:
		return "zstd-multi"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// Chunk はアーカイブ内のエントリを表します
type Chunk struct {
	PathHash         uint64
	DataOffset       uint32
	CompressedSize   uint32
	UncompressedSize uint32
	Compression      CompressionType
	SubchunkCount    uint8
	IsDuplicated     bool
	StartSubchunk    uint16
	Checksum         uint64 // v2以降のみ
}

// Wad はマウント済みのWADアーカイブを表します
type Wad struct {
	source    io.ReadSeeker
	closer    io.Closer
	major     uint8
	minor     uint8
	signature []byte
	checksum  uint64
	chunks    map[uint64]Chunk
}

// Open はWADファイルを開いてマウントします
func Open(filename string) (*Wad, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	w, err := Mount(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	w.closer = file
	return w, nil
}

// Mount はソースからヘッダとチャンクテーブルを読み込みます。
// ソースの所有権はWadに移り、以降はDecoder経由でのみ読み込んでください
func Mount(source io.ReadSeeker) (*Wad, error) {
	if _, err := source.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	var header [4]byte
	if _, err := io.ReadFull(source, header[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	if string(header[:2]) != Magic {
		return nil, ErrInvalidMagic
	}

	w := &Wad{
		source: source,
		major:  header[2],
		minor:  header[3],
	}

	var tocOffset int64
	var entrySize int64
	var chunkCount uint32

	switch w.major {
	case 1:
		var toc struct {
			Offset     uint16
			EntrySize  uint16
			ChunkCount uint32
		}
		if err := binary.Read(source, binary.LittleEndian, &toc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTruncated, err)
		}
		tocOffset, entrySize, chunkCount = int64(toc.Offset), int64(toc.EntrySize), toc.ChunkCount

	case 2:
		var sigLen uint8
		if err := binary.Read(source, binary.LittleEndian, &sigLen); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTruncated, err)
		}
		sig := make([]byte, v2SignatureSize)
		if _, err := io.ReadFull(source, sig); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTruncated, err)
		}
		if int(sigLen) < len(sig) {
			sig = sig[:sigLen]
		}
		w.signature = sig

		var toc struct {
			Checksum   uint64
			Offset     uint16
			EntrySize  uint16
			ChunkCount uint32
		}
		if err := binary.Read(source, binary.LittleEndian, &toc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTruncated, err)
		}
		w.checksum = toc.Checksum
		tocOffset, entrySize, chunkCount = int64(toc.Offset), int64(toc.EntrySize), toc.ChunkCount

	case 3:
		w.signature = make([]byte, v3SignatureSize)
		if _, err := io.ReadFull(source, w.signature); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTruncated, err)
		}
		var toc struct {
			Checksum   uint64
			ChunkCount uint32
		}
		if err := binary.Read(source, binary.LittleEndian, &toc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTruncated, err)
		}
		w.checksum = toc.Checksum
		tocOffset, entrySize, chunkCount = v3HeaderSize, v2EntrySize, toc.ChunkCount

	default:
		return nil, fmt.Errorf("%w: %d.%d", ErrUnsupportedVersion, w.major, w.minor)
	}

	minEntry := int64(v2EntrySize)
	if w.major == 1 {
		minEntry = v1EntrySize
	}
	if entrySize < minEntry {
		return nil, fmt.Errorf("%w: エントリサイズ %d", ErrInvalidTOC, entrySize)
	}

	size, err := source.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if tocOffset+entrySize*int64(chunkCount) > size {
		return nil, fmt.Errorf("%w: チャンクテーブル (%d 件) がファイルサイズ %d を超えています", ErrTruncated, chunkCount, size)
	}

	chunks, err := readChunks(source, w.major, tocOffset, entrySize, chunkCount, size)
	if err != nil {
		return nil, err
	}
	w.chunks = chunks

	return w, nil
}

// readChunks はチャンクテーブルを読み込みます。データ範囲がsizeを超えるエントリはエラーになります
func readChunks(source io.ReadSeeker, major uint8, tocOffset, entrySize int64, count uint32, size int64) (map[uint64]Chunk, error) {
	chunks := make(map[uint64]Chunk, count)
	entry := make([]byte, entrySize)

	if _, err := source.Seek(tocOffset, io.SeekStart); err != nil {
		return nil, err
	}

	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(source, entry); err != nil {
			return nil, fmt.Errorf("%w: チャンク %d: %w", ErrTruncated, i, err)
		}

		chunk := Chunk{
			PathHash:         binary.LittleEndian.Uint64(entry[0:8]),
			DataOffset:       binary.LittleEndian.Uint32(entry[8:12]),
			CompressedSize:   binary.LittleEndian.Uint32(entry[12:16]),
			UncompressedSize: binary.LittleEndian.Uint32(entry[16:20]),
			Compression:      CompressionType(entry[20] & 0x0F),
			SubchunkCount:    entry[20] >> 4,
			IsDuplicated:     entry[21] != 0,
			StartSubchunk:    binary.LittleEndian.Uint16(entry[22:24]),
		}
		if major >= 2 {
			chunk.Checksum = binary.LittleEndian.Uint64(entry[24:32])
		}

		if int64(chunk.DataOffset)+int64(chunk.CompressedSize) > size {
			return nil, fmt.Errorf("%w: %016x: データ範囲 %d+%d がファイルサイズ %d を超えています",
				ErrInvalidTOC, chunk.PathHash, chunk.DataOffset, chunk.CompressedSize, size)
		}

		if _, exists := chunks[chunk.PathHash]; exists {
			return nil, fmt.Errorf("%w: %016x", ErrDuplicateChunk, chunk.PathHash)
		}
		chunks[chunk.PathHash] = chunk
	}

	return chunks, nil
}

// Close はアーカイブファイルを閉じます。Mountで作成した場合は何もしません
func (w *Wad) Close() error {
	if w.closer == nil {
		return nil
	}
	err := w.closer.Close()
	w.closer = nil
	return err
}

// Version はアーカイブのバージョンを返します
func (w *Wad) Version() (major, minor uint8) {
	return w.major, w.minor
}

// Checksum はヘッダに記録されたチェックサムを返します
func (w *Wad) Checksum() uint64 {
	return w.checksum
}

// Chunks はパスハッシュをキーとしたチャンクテーブルを返します
func (w *Wad) Chunks() map[uint64]Chunk {
	return w.chunks
}

// SortedChunks はパスハッシュ順に並べたチャンクを返します
func (w *Wad) SortedChunks() []Chunk {
	return SortChunks(w.chunks)
}

// SortChunks はチャンクテーブルをパスハッシュ順のスライスに変換します
func SortChunks(chunks map[uint64]Chunk) []Chunk {
	result := make([]Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		result = append(result, chunk)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].PathHash < result[j].PathHash
	})
	return result
}

// hasChunkChecksums はチャンク単位のXXH3チェックサムを持つバージョンか判定します
func (w *Wad) hasChunkChecksums() bool {
	return w.major > 3 || (w.major == 3 && w.minor >= 1)
}
