package workshop

import (
	"errors"
	"fmt"

	"fileconverser/internal/events"
	"fileconverser/internal/media"
	"fileconverser/internal/queue"
	"fileconverser/internal/services"
)

// Patch is a partial settings update for one job. Nil fields are left
// unchanged. Format is the image format for image jobs and the document
// format for document jobs. A preset is applied before explicit edges.
// Out-of-range numbers are clamped by the job; only sizes beyond the decoder
// limits are refused.
type Patch struct {
	Format              *string  `json:"format,omitempty" validate:"omitempty,min=2,max=8"`
	Preset              *string  `json:"preset,omitempty" validate:"omitempty,max=64"`
	MaintainAspectRatio *bool    `json:"maintain_aspect_ratio,omitempty"`
	Width               *int     `json:"width,omitempty" validate:"omitempty,max=65535"`
	Height              *int     `json:"height,omitempty" validate:"omitempty,max=65535"`
	Quality             *float64 `json:"quality,omitempty"`
	DPI                 *int     `json:"dpi,omitempty" validate:"omitempty,max=4800"`
	ColorProfile        *string  `json:"color_profile,omitempty" validate:"omitempty,max=32"`
	CompressionLevel    *string  `json:"compression_level,omitempty" validate:"omitempty,oneof=low medium high custom LOW MEDIUM HIGH CUSTOM"`
	CustomCompression   *float64 `json:"custom_compression,omitempty"`
}

func (p Patch) touchesImage() bool {
	return p.Preset != nil || p.MaintainAspectRatio != nil || p.Width != nil || p.Height != nil ||
		p.Quality != nil || p.DPI != nil || p.ColorProfile != nil
}

func (p Patch) touchesDocument() bool {
	return p.CompressionLevel != nil || p.CustomCompression != nil
}

// Configure applies a settings patch to a job. Out-of-range numbers are
// clamped by the job itself; unknown enum values are rejected.
func (e *Engine) Configure(kind queue.Kind, id string, patch Patch) (*queue.Job, error) {
	store, err := e.store(kind)
	if err != nil {
		return nil, err
	}
	job, err := store.Update(id, func(j *queue.Job) error {
		switch {
		case j.IsImage():
			return applyImagePatch(j.Image, patch)
		case j.IsDocument():
			return applyDocumentPatch(j.Document, patch)
		default:
			return queue.ErrCategoryMismatch
		}
	})
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return nil, err
		}
		return nil, classify("workshop", "configure job", err)
	}
	e.bus.Publish(events.Event{Type: events.TypeJobUpdated, Queue: string(kind), JobID: job.ID, Status: string(job.Status), Progress: job.Progress})
	return job, nil
}

func invalid(field string, err error) error {
	return services.Wrap(services.ErrValidation, "workshop", "configure job", field, err)
}

func applyImagePatch(opts *queue.ImageOptions, p Patch) error {
	if p.touchesDocument() {
		return invalid("compression", fmt.Errorf("compression settings apply to documents only"))
	}
	if p.Format != nil {
		format, err := media.ParseImageFormat(*p.Format)
		if err != nil {
			return invalid("format", err)
		}
		opts.SetTargetFormat(format)
	}
	if p.ColorProfile != nil {
		profile, err := media.ParseColorProfile(*p.ColorProfile)
		if err != nil {
			return invalid("color_profile", err)
		}
		opts.SetColorProfile(profile)
	}
	if p.Preset != nil {
		preset, ok := media.LookupPreset(*p.Preset)
		if !ok {
			return invalid("preset", fmt.Errorf("unknown preset %q", *p.Preset))
		}
		opts.ApplyPreset(preset)
	}
	if p.MaintainAspectRatio != nil {
		opts.SetMaintainAspectRatio(*p.MaintainAspectRatio)
	}
	if p.Width != nil {
		opts.SetWidth(*p.Width)
	}
	if p.Height != nil {
		opts.SetHeight(*p.Height)
	}
	if p.Quality != nil {
		opts.SetQuality(*p.Quality)
	}
	if p.DPI != nil {
		opts.SetDPI(*p.DPI)
	}
	return nil
}

func applyDocumentPatch(opts *queue.DocumentOptions, p Patch) error {
	if p.touchesImage() {
		return invalid("image settings", fmt.Errorf("image settings apply to images only"))
	}
	if p.Format != nil {
		format, err := media.ParseDocumentFormat(*p.Format)
		if err != nil {
			return invalid("format", err)
		}
		opts.SetTargetFormat(format)
	}
	if p.CompressionLevel != nil {
		level, err := media.ParseCompressionLevel(*p.CompressionLevel)
		if err != nil {
			return invalid("compression_level", err)
		}
		opts.SetCompressionLevel(level)
	}
	if p.CustomCompression != nil {
		opts.SetCustomCompression(*p.CustomCompression)
	}
	return nil
}
