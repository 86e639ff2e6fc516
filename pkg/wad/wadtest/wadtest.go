// Package wadtest はテスト用のWADアーカイブを組み立てる関数を提供します
package wadtest

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/klauspost/compress/zstd"
	gzip "github.com/klauspost/pgzip"
	"github.com/zeebo/xxh3"

	"github.com/shiroemons/go-wadtools/pkg/wad"
)

// Entry はアーカイブに格納するエントリ
type Entry struct {
	PathHash    uint64
	Data        []byte
	Compression wad.CompressionType
}

// BuildV3 はバージョン3.minorのWADアーカイブのバイト列を作成します
func BuildV3(minor uint8, entries []Entry) ([]byte, error) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PathHash < sorted[j].PathHash
	})

	var header bytes.Buffer
	header.WriteString(wad.Magic)
	header.WriteByte(3)
	header.WriteByte(minor)
	header.Write(make([]byte, 256))
	binary.Write(&header, binary.LittleEndian, uint64(0))
	binary.Write(&header, binary.LittleEndian, uint32(len(sorted)))

	dataStart := header.Len() + 32*len(sorted)

	var toc, data bytes.Buffer
	for _, e := range sorted {
		stored, err := encode(e.Data, e.Compression)
		if err != nil {
			return nil, err
		}

		binary.Write(&toc, binary.LittleEndian, e.PathHash)
		binary.Write(&toc, binary.LittleEndian, uint32(dataStart+data.Len()))
		binary.Write(&toc, binary.LittleEndian, uint32(len(stored)))
		binary.Write(&toc, binary.LittleEndian, uint32(len(e.Data)))
		toc.WriteByte(byte(e.Compression))
		toc.WriteByte(0)
		binary.Write(&toc, binary.LittleEndian, uint16(0))
		binary.Write(&toc, binary.LittleEndian, xxh3.Hash(stored))

		data.Write(stored)
	}

	var out bytes.Buffer
	out.Write(header.Bytes())
	out.Write(toc.Bytes())
	out.Write(data.Bytes())
	return out.Bytes(), nil
}

// encode はデータを指定の格納形式に変換します
func encode(data []byte, compression wad.CompressionType) ([]byte, error) {
	switch compression {
	case wad.CompressionGzip:
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(data); err != nil {
			return nil, err
		}
		if err := gw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case wad.CompressionZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), nil
	default:
		return data, nil
	}
}
