package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// JSONLSink writes one JSON object per line.
type JSONLSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewJSONLSink(w io.Writer) *JSONLSink {
	return &JSONLSink{enc: json.NewEncoder(w)}
}

func (s *JSONLSink) Emit(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(record); err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return nil
}
