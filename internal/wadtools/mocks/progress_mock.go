package mocks

import "fmt"

// MockProgress は報告された進捗を記録するモック
type MockProgress struct {
	Fractions []float64
	Messages  []string

	// Error が設定されている場合、Reportはこのエラーを返します
	Error error

	Clears int
}

// Clear は行の消去回数を記録します
func (m *MockProgress) Clear() {
	m.Clears++
}

// Report は進捗を記録します
func (m *MockProgress) Report(fraction float64, message string) error {
	m.Fractions = append(m.Fractions, fraction)
	m.Messages = append(m.Messages, message)
	return m.Error
}

// MockLogger は出力を記録するロガーのモック
type MockLogger struct {
	Debugs   []string
	Warnings []string
}

// Printf はデバッグメッセージを記録します
func (m *MockLogger) Printf(format string, a ...any) {
	m.Debugs = append(m.Debugs, fmt.Sprintf(format, a...))
}

// Warnf は警告メッセージを記録します
func (m *MockLogger) Warnf(format string, a ...any) {
	m.Warnings = append(m.Warnings, fmt.Sprintf(format, a...))
}
