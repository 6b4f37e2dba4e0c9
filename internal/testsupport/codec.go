package testsupport

import (
	"context"
	"errors"
	"sync"

	"fileconverser/internal/codec"
	"fileconverser/internal/media"
)

// ErrStubFailure is returned by StubCodec for sources listed in FailNames.
var ErrStubFailure = errors.New("stub codec failure")

// StubCodec records calls and returns canned output without decoding anything.
// A source whose name is in FailNames fails. When Gate is non-nil every call
// blocks until it is closed or receives a value.
type StubCodec struct {
	// Dims is returned by Probe for every source.
	Dims      media.Dimensions
	FailNames map[string]bool
	Gate      chan struct{}
	Started   chan string

	mu       sync.Mutex
	images   []codec.ImageRequest
	compress []float64
	docs     []media.DocumentFormat
	names    []string
}

// NewStubCodec returns a stub that fails for the given source names.
func NewStubCodec(failNames ...string) *StubCodec {
	s := &StubCodec{FailNames: make(map[string]bool, len(failNames))}
	for _, name := range failNames {
		s.FailNames[name] = true
	}
	return s
}

func (s *StubCodec) begin(ctx context.Context, name string) error {
	s.mu.Lock()
	s.names = append(s.names, name)
	s.mu.Unlock()
	if s.Started != nil {
		s.Started <- name
	}
	if s.Gate != nil {
		select {
		case <-s.Gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if s.FailNames[name] {
		return ErrStubFailure
	}
	return nil
}

func (s *StubCodec) ConvertImage(ctx context.Context, src codec.Input, req codec.ImageRequest) (codec.Output, error) {
	s.mu.Lock()
	s.images = append(s.images, req)
	s.mu.Unlock()
	if err := s.begin(ctx, src.Name); err != nil {
		return codec.Output{}, err
	}
	return codec.Output{
		Data:      []byte("image:" + src.Name),
		MediaType: req.Format.MediaType(),
		Width:     req.Width,
		Height:    req.Height,
	}, nil
}

func (s *StubCodec) CompressImage(ctx context.Context, src codec.Input, quality float64, format media.ImageFormat, scale float64) (codec.Output, error) {
	s.mu.Lock()
	s.compress = append(s.compress, scale)
	s.mu.Unlock()
	if err := s.begin(ctx, src.Name); err != nil {
		return codec.Output{}, err
	}
	return codec.Output{Data: []byte("c"), MediaType: format.MediaType()}, nil
}

func (s *StubCodec) ConvertDocument(ctx context.Context, src codec.Input, target media.DocumentFormat) (codec.Output, error) {
	s.mu.Lock()
	s.docs = append(s.docs, target)
	s.mu.Unlock()
	if err := s.begin(ctx, src.Name); err != nil {
		return codec.Output{}, err
	}
	return codec.Output{Data: append([]byte(nil), src.Data...), MediaType: target.MediaType()}, nil
}

func (s *StubCodec) CompressDocument(ctx context.Context, src codec.Input, level media.CompressionLevel, custom float64) (codec.Output, error) {
	if err := s.begin(ctx, src.Name); err != nil {
		return codec.Output{}, err
	}
	ratio := codec.CompressionRatio(level, custom)
	return codec.Output{Data: src.Data[:int(float64(len(src.Data))*ratio)], MediaType: src.MediaType}, nil
}

func (s *StubCodec) Probe(ctx context.Context, src codec.Input) (media.Dimensions, error) {
	if err := ctx.Err(); err != nil {
		return media.Dimensions{}, err
	}
	return s.Dims, nil
}

func (s *StubCodec) Preview(ctx context.Context, src codec.Input, category media.Category) ([]byte, error) {
	return nil, ctx.Err()
}

// ImageRequests returns the image conversion requests seen so far.
func (s *StubCodec) ImageRequests() []codec.ImageRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]codec.ImageRequest(nil), s.images...)
}

// CompressScales returns the scale factors passed to CompressImage.
func (s *StubCodec) CompressScales() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]float64(nil), s.compress...)
}

// DocumentTargets returns the targets passed to ConvertDocument.
func (s *StubCodec) DocumentTargets() []media.DocumentFormat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]media.DocumentFormat(nil), s.docs...)
}

// Calls returns the source names in call order.
func (s *StubCodec) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.names...)
}
