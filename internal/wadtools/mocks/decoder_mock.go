package mocks

import (
	"fmt"

	"github.com/shiroemons/go-wadtools/pkg/wad"
)

// MockDecoder はChunkDecoderのモック実装です
type MockDecoder struct {
	Data   map[uint64][]byte
	Errors map[uint64]error

	CallCount int
}

// NewMockDecoder は新しいMockDecoderを作成します
func NewMockDecoder() *MockDecoder {
	return &MockDecoder{
		Data:   make(map[uint64][]byte),
		Errors: make(map[uint64]error),
	}
}

// LoadChunkDecompressed は登録されたデータまたはエラーを返します
func (m *MockDecoder) LoadChunkDecompressed(chunk wad.Chunk) ([]byte, error) {
	m.CallCount++
	if err, ok := m.Errors[chunk.PathHash]; ok {
		return nil, err
	}
	data, ok := m.Data[chunk.PathHash]
	if !ok {
		return nil, fmt.Errorf("mock: チャンク %016x のデータがありません", chunk.PathHash)
	}
	return data, nil
}
