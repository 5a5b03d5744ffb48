// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

package creator

import (
	"errors"
	"fmt"

	"github.com/cardsmith/cardsmith/internal/extras"
	"github.com/cardsmith/cardsmith/internal/fonts"
	"github.com/cardsmith/cardsmith/internal/models"
	"github.com/cardsmith/cardsmith/internal/pattern"
	"github.com/cardsmith/cardsmith/internal/validation"
)

// UnknownCardTypeError reports a request naming a card type the registry
// does not know.
type UnknownCardTypeError struct {
	CardType string
}

func (e *UnknownCardTypeError) Error() string {
	return fmt.Sprintf("unknown card type %q", e.CardType)
}

// MissingSourceImageError reports an absent source image. Fatal for the
// requesting card only; batch neighbors keep rendering.
type MissingSourceImageError struct {
	Path string
}

func (e *MissingSourceImageError) Error() string {
	if e.Path == "" {
		return "source image not provided"
	}
	return fmt.Sprintf("source image %s does not exist", e.Path)
}

// ClassifyError maps a render failure to its report and metrics kind.
func ClassifyError(err error) models.ErrorKind {
	var (
		unknownType *UnknownCardTypeError
		missing     *MissingSourceImageError
		fontErr     *fonts.LoadError
		extrasErr   *extras.ValidationError
		requestErr  *validation.RequestValidationError
		patternErr  *pattern.ParseError
	)
	switch {
	case errors.As(err, &unknownType):
		return models.ErrorKindUnknownCardType
	case errors.As(err, &missing):
		return models.ErrorKindMissingSource
	case errors.As(err, &fontErr):
		return models.ErrorKindFontLoad
	case errors.As(err, &extrasErr), errors.As(err, &requestErr):
		return models.ErrorKindValidation
	case errors.As(err, &patternErr):
		return models.ErrorKindPatternParse
	default:
		return models.ErrorKindRender
	}
}
