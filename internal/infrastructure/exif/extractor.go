package exif

import (
	"context"
	"fmt"
	"time"

	exiftool "github.com/barasher/go-exiftool"
	"github.com/rs/zerolog"

	"github.com/Syed-Ali-7/civicfix-backend/internal/core/domain"
)

const (
	defaultWorkers = 2
	defaultTimeout = 5 * time.Second
)

// Extractor reads image metadata through a fixed pool of stay-open exiftool
// processes. An instance serves one extraction at a time; callers borrow one
// from the pool and it is returned only once the underlying read finishes,
// so a timed-out caller never hands a busy process to the next one.
type Extractor struct {
	pool      chan *exiftool.Exiftool
	instances []*exiftool.Exiftool
	timeout   time.Duration
	log       zerolog.Logger
}

// NewExtractor starts workers exiftool processes. The returned Extractor
// must be closed to terminate them.
func NewExtractor(workers int, timeout time.Duration, log zerolog.Logger) (*Extractor, error) {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	e := &Extractor{
		pool:    make(chan *exiftool.Exiftool, workers),
		timeout: timeout,
		log:     log,
	}
	for i := 0; i < workers; i++ {
		et, err := exiftool.NewExiftool(exiftool.NoPrintConversion())
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("start exiftool: %w", err)
		}
		e.instances = append(e.instances, et)
		e.pool <- et
	}
	return e, nil
}

// Close terminates all pooled exiftool processes.
func (e *Extractor) Close() {
	for _, et := range e.instances {
		if err := et.Close(); err != nil {
			e.log.Warn().Err(err).Msg("failed to close exiftool instance")
		}
	}
}

// Extract reads the metadata of the image at path. The call is bounded by
// the configured timeout; expiry and backend failures wrap
// domain.ErrExtraction.
func (e *Extractor) Extract(ctx context.Context, path string) (domain.ImageMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var et *exiftool.Exiftool
	select {
	case et = <-e.pool:
	case <-ctx.Done():
		return domain.ImageMetadata{}, fmt.Errorf("%w: %v", domain.ErrExtraction, ctx.Err())
	}

	type result struct {
		meta domain.ImageMetadata
		err  error
	}
	done := make(chan result, 1)

	go func() {
		defer func() { e.pool <- et }()
		fms := et.ExtractMetadata(path)
		if len(fms) == 0 {
			done <- result{err: fmt.Errorf("%w: no metadata result", domain.ErrExtraction)}
			return
		}
		if fms[0].Err != nil {
			done <- result{err: fmt.Errorf("%w: %v", domain.ErrExtraction, fms[0].Err)}
			return
		}
		done <- result{meta: metadataFromFields(fms[0].Fields)}
	}()

	select {
	case r := <-done:
		return r.meta, r.err
	case <-ctx.Done():
		return domain.ImageMetadata{}, fmt.Errorf("%w: %v", domain.ErrExtraction, ctx.Err())
	}
}
