// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/cardsmith/cardsmith/internal/logging"
	"github.com/cardsmith/cardsmith/internal/models"
)

// LoadLocalDir scans dir for YAML card type descriptors and swaps them in
// as the local source. Each file holds one descriptor naming a built-in
// base whose compose function it reuses. A missing directory is not an
// error; a fresh install has none. Returns the number registered.
func (r *Registry) LoadLocalDir(dir string) (int, error) {
	if dir == "" {
		return 0, nil
	}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		logging.Debug().Str("dir", dir).Msg("Local card type directory does not exist")
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read card type directory: %w", err)
	}

	var descs []models.CardTypeDescriptor
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yml" && ext != ".yaml" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		desc, err := loadDescriptorFile(path)
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Skipping unreadable card type descriptor")
			continue
		}
		descs = append(descs, desc)
	}

	n := r.AdoptDescriptors(descs, models.SourceLocal)
	logging.Info().Int("count", n).Str("dir", dir).Msg("Local card types loaded")
	return n, nil
}

// loadDescriptorFile parses one YAML descriptor file.
func loadDescriptorFile(path string) (models.CardTypeDescriptor, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return models.CardTypeDescriptor{}, fmt.Errorf("parse descriptor: %w", err)
	}

	var desc models.CardTypeDescriptor
	if err := k.Unmarshal("", &desc); err != nil {
		return models.CardTypeDescriptor{}, fmt.Errorf("decode descriptor: %w", err)
	}
	return desc, nil
}
