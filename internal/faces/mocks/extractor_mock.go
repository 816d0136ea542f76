package mocks

import (
	"context"

	"github.com/shiroemons/go-facebin/pkg/facebin"
)

// MockExtractor はExtractorのモック実装です
type MockExtractor struct {
	Report    *facebin.Report
	Error     error
	CallCount int
	LastData  []byte
}

// Extract はモック実装です
func (m *MockExtractor) Extract(ctx context.Context, data []byte) (*facebin.Report, error) {
	m.CallCount++
	m.LastData = data
	if m.Error != nil {
		return nil, m.Error
	}
	return m.Report, nil
}
