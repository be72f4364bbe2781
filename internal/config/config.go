// Package config loads decoder settings from a JSON file. Every field is
// optional; omitted fields keep the value already in the card.Params the
// file is applied to, so partial configs are safe.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"punchcard/internal/card"
	"punchcard/internal/fsutil"
)

// MaxFileSize is the largest config file Load accepts.
const MaxFileSize = 1 * 1024 * 1024

// File mirrors card.Params with optional fields.
type File struct {
	Rows       *int     `json:"rows,omitempty"`
	Cols       *int     `json:"cols,omitempty"`
	LeftRatio  *float64 `json:"left_ratio,omitempty"`
	RightRatio *float64 `json:"right_ratio,omitempty"`

	ChannelCutoff *int    `json:"channel_cutoff,omitempty"`
	GrayMode      *string `json:"gray_mode,omitempty"` // threshold, dither, direct or channels
	ForceGray     *bool   `json:"force_gray,omitempty"`
	AutoThreshold *bool   `json:"auto_threshold,omitempty"`

	BackgroundThreshold *float64 `json:"background_threshold,omitempty"`
	PunchThreshold      *float64 `json:"punch_threshold,omitempty"`
	Polarity            *string  `json:"polarity,omitempty"` // dark or bright
	StrictContent       *bool    `json:"strict_content,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// FromParams returns a fully populated File describing p.
func FromParams(p card.Params) *File {
	return &File{
		Rows:                ptrInt(p.Rows),
		Cols:                ptrInt(p.Cols),
		LeftRatio:           ptrFloat64(p.LeftRatio),
		RightRatio:          ptrFloat64(p.RightRatio),
		ChannelCutoff:       ptrInt(int(p.ChannelCutoff)),
		GrayMode:            ptrString(p.GrayMode.String()),
		ForceGray:           ptrBool(p.ForceGray),
		AutoThreshold:       ptrBool(p.AutoThreshold),
		BackgroundThreshold: ptrFloat64(p.BackgroundThreshold),
		PunchThreshold:      ptrFloat64(p.PunchThreshold),
		Polarity:            ptrString(p.Polarity.String()),
		StrictContent:       ptrBool(p.StrictContent),
	}
}

// Load reads a config file from the OS filesystem.
func Load(path string) (*File, error) {
	return LoadFS(fsutil.OSFileSystem{}, path)
}

// LoadFS reads a config file from fsys. The file must have a .json
// extension and be at most MaxFileSize bytes.
func LoadFS(fsys fsutil.FileSystem, path string) (*File, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), MaxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates config JSON. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &f, nil
}

// Validate checks the fields that can be checked without a base Params.
func (f *File) Validate() error {
	if f.ChannelCutoff != nil && (*f.ChannelCutoff < 0 || *f.ChannelCutoff > 255) {
		return fmt.Errorf("channel_cutoff must be between 0 and 255, got %d", *f.ChannelCutoff)
	}
	if f.GrayMode != nil {
		if _, err := card.ParseGrayMode(*f.GrayMode); err != nil {
			return fmt.Errorf("gray_mode: %w", err)
		}
	}
	if f.Polarity != nil {
		if _, err := card.ParsePolarity(*f.Polarity); err != nil {
			return fmt.Errorf("polarity: %w", err)
		}
	}
	return nil
}

// Apply overlays the set fields on p and validates the result.
func (f *File) Apply(p card.Params) (card.Params, error) {
	if f.Rows != nil {
		p.Rows = *f.Rows
	}
	if f.Cols != nil {
		p.Cols = *f.Cols
	}
	if f.LeftRatio != nil {
		p.LeftRatio = *f.LeftRatio
	}
	if f.RightRatio != nil {
		p.RightRatio = *f.RightRatio
	}
	if f.ChannelCutoff != nil {
		p.ChannelCutoff = uint8(*f.ChannelCutoff)
	}
	if f.GrayMode != nil {
		m, err := card.ParseGrayMode(*f.GrayMode)
		if err != nil {
			return p, err
		}
		p.GrayMode = m
	}
	if f.ForceGray != nil {
		p.ForceGray = *f.ForceGray
	}
	if f.AutoThreshold != nil {
		p.AutoThreshold = *f.AutoThreshold
	}
	if f.BackgroundThreshold != nil {
		p.BackgroundThreshold = *f.BackgroundThreshold
	}
	if f.PunchThreshold != nil {
		p.PunchThreshold = *f.PunchThreshold
	}
	if f.Polarity != nil {
		pol, err := card.ParsePolarity(*f.Polarity)
		if err != nil {
			return p, err
		}
		p.Polarity = pol
	}
	if f.StrictContent != nil {
		p.StrictContent = *f.StrictContent
	}
	return p, p.Validate()
}

// Marshal returns f as indented JSON.
func (f *File) Marshal() ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}
