package qrlink

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prasetyowira/qrlink/constant"
	"github.com/prasetyowira/qrlink/domain/urlcheck"
	"github.com/prasetyowira/qrlink/infrastructure/cache"
	"github.com/prasetyowira/qrlink/infrastructure/logger"
	"github.com/prasetyowira/qrlink/infrastructure/render"
)

// Service represents the domain service for managed QR links
type Service struct {
	repo      Repository
	artifacts ArtifactRepository
	cache     *cache.NamespaceLRU
	baseURL   string
}

// NewService creates a new qrlink service. baseURL is the public
// origin the managed links live under, without a trailing slash.
func NewService(repo Repository, artifacts ArtifactRepository, lru *cache.NamespaceLRU, baseURL string) *Service {
	ctx := logger.NewRequestContext()

	logger.CtxDebug(ctx, "Creating qrlink service", logger.LoggerInfo{
		ContextFunction: constant.CtxDomain,
		Data: map[string]interface{}{
			constant.DataService: "qrlink",
			constant.DataBaseURL: baseURL,
		},
	})

	return &Service{
		repo:      repo,
		artifacts: artifacts,
		cache:     lru,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// ManagedURL is the absolute URL the printed QR image encodes. It
// never changes for the lifetime of a code.
func (s *Service) ManagedURL(slug string) string {
	return s.baseURL + "/r/" + slug
}

// CreateCode registers a new managed QR link. A nil style gets the
// default look; an empty customSlug gets a random one.
func (s *Service) CreateCode(ctx context.Context, destination, customSlug, label string, style *Style, logoDataURI string) (*Code, error) {
	logger.CtxDebug(ctx, "Creating code", logger.LoggerInfo{
		ContextFunction: constant.CtxCreateCode,
		Data: map[string]interface{}{
			constant.DataDestination: destination,
			constant.DataCustomSlug:  customSlug != "",
		},
	})

	normalized, err := s.checkDestination(ctx, constant.CtxCreateCode, destination)
	if err != nil {
		return nil, err
	}

	applied := DefaultStyle()
	if style != nil {
		applied = *style
	}
	if err := s.checkStyle(ctx, constant.CtxCreateCode, applied, logoDataURI); err != nil {
		return nil, err
	}

	slug := customSlug
	if slug != "" {
		if !validSlug(slug) {
			logger.CtxWarn(ctx, "Custom slug rejected", logger.LoggerInfo{
				ContextFunction: constant.CtxCreateCode,
				Error: &logger.CustomError{
					Code:    constant.ErrCodeInvalidSlug,
					Message: constant.ErrInvalidSlug,
					Type:    constant.ErrTypeValidation,
				},
				Data: map[string]interface{}{
					constant.DataSlug: slug,
				},
			})
			return nil, ErrInvalidSlug
		}
		if _, err := s.repo.FindBySlug(ctx, slug); err == nil {
			logger.CtxWarn(ctx, "Custom slug already taken", logger.LoggerInfo{
				ContextFunction: constant.CtxCreateCode,
				Error: &logger.CustomError{
					Code:    constant.ErrCodeSlugExists,
					Message: constant.ErrSlugExists,
					Type:    constant.ErrTypeValidation,
				},
				Data: map[string]interface{}{
					constant.DataSlug: slug,
				},
			})
			return nil, ErrSlugExists
		} else if !errors.Is(err, ErrSlugNotFound) {
			return nil, err
		}
	} else {
		slug, err = s.allocateSlug(ctx)
		if err != nil {
			return nil, err
		}
	}

	code := &Code{
		Slug:        slug,
		Destination: normalized,
		Label:       label,
		Style:       applied,
		LogoDataURI: logoDataURI,
		CreatedAt:   time.Now(),
		Scans:       0,
	}

	if err := s.repo.Store(ctx, code); err != nil {
		logger.CtxError(ctx, "Failed to store code", logger.LoggerInfo{
			ContextFunction: constant.CtxCreateCode,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeStorageFailure,
				Message: err.Error(),
				Type:    constant.ErrTypeStorage,
			},
			Data: map[string]interface{}{
				constant.DataSlug:        slug,
				constant.DataDestination: normalized,
			},
		})
		return nil, err
	}

	s.cache.Set(constant.CodeNamespace, slug, code)

	logger.CtxInfo(ctx, "Code successfully created", logger.LoggerInfo{
		ContextFunction: constant.CtxCreateCode,
		Data: map[string]interface{}{
			constant.DataSlug:        code.Slug,
			constant.DataDestination: code.Destination,
			constant.DataLabel:       code.Label,
			constant.DataCustom:      customSlug != "",
		},
	})

	return code, nil
}

// GetCode retrieves a single code by slug.
func (s *Service) GetCode(ctx context.Context, slug string) (*Code, error) {
	logger.CtxDebug(ctx, "Retrieving code", logger.LoggerInfo{
		ContextFunction: constant.CtxGetCode,
		Data: map[string]interface{}{
			constant.DataSlug: slug,
		},
	})

	if slug == "" {
		logger.CtxWarn(ctx, "Slug cannot be empty", logger.LoggerInfo{
			ContextFunction: constant.CtxGetCode,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeEmptySlug,
				Message: constant.ErrEmptySlug,
				Type:    constant.ErrTypeValidation,
			},
		})
		return nil, ErrEmptySlug
	}

	code, err := s.fetchCode(ctx, constant.CtxGetCode, slug)
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Code retrieved successfully", logger.LoggerInfo{
		ContextFunction: constant.CtxGetCode,
		Data: map[string]interface{}{
			constant.DataSlug:        code.Slug,
			constant.DataDestination: code.Destination,
			constant.DataScans:       code.Scans,
		},
	})

	return code, nil
}

// ListCodes returns every managed code, newest first.
func (s *Service) ListCodes(ctx context.Context) ([]*Code, error) {
	logger.CtxDebug(ctx, "Listing codes", logger.LoggerInfo{
		ContextFunction: constant.CtxListCodes,
	})

	codes, err := s.repo.ListAll(ctx)
	if err != nil {
		logger.CtxError(ctx, "Failed to list codes", logger.LoggerInfo{
			ContextFunction: constant.CtxListCodes,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeStorageFailure,
				Message: err.Error(),
				Type:    constant.ErrTypeStorage,
			},
		})
		return nil, err
	}

	logger.CtxInfo(ctx, "Codes listed successfully", logger.LoggerInfo{
		ContextFunction: constant.CtxListCodes,
		Data: map[string]interface{}{
			constant.DataRows: len(codes),
		},
	})

	return codes, nil
}

// UpdateDestination points an existing code at a new destination. The
// printed QR image keeps working because it encodes the managed link,
// not the destination, so cached artifacts stay valid.
func (s *Service) UpdateDestination(ctx context.Context, slug, destination string) (*Code, error) {
	logger.CtxDebug(ctx, "Updating destination", logger.LoggerInfo{
		ContextFunction: constant.CtxUpdateDestination,
		Data: map[string]interface{}{
			constant.DataSlug:        slug,
			constant.DataDestination: destination,
		},
	})

	if slug == "" {
		logger.CtxWarn(ctx, "Slug cannot be empty", logger.LoggerInfo{
			ContextFunction: constant.CtxUpdateDestination,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeEmptySlug,
				Message: constant.ErrEmptySlug,
				Type:    constant.ErrTypeValidation,
			},
		})
		return nil, ErrEmptySlug
	}

	normalized, err := s.checkDestination(ctx, constant.CtxUpdateDestination, destination)
	if err != nil {
		return nil, err
	}

	// First check that the slug exists
	code, err := s.fetchCode(ctx, constant.CtxUpdateDestination, slug)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateDestination(ctx, slug, normalized); err != nil {
		logger.CtxError(ctx, "Failed to update destination", logger.LoggerInfo{
			ContextFunction: constant.CtxUpdateDestination,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeUpdateFailure,
				Message: err.Error(),
				Type:    constant.ErrTypeStorage,
			},
			Data: map[string]interface{}{
				constant.DataSlug:        slug,
				constant.DataDestination: normalized,
			},
		})
		return nil, err
	}

	updated := *code
	updated.Destination = normalized
	updated.UpdatedAt = time.Now()

	// Update the cache
	s.cache.Set(constant.CodeNamespace, slug, &updated)

	logger.CtxInfo(ctx, "Destination successfully updated", logger.LoggerInfo{
		ContextFunction: constant.CtxUpdateDestination,
		Data: map[string]interface{}{
			constant.DataSlug:        slug,
			constant.DataDestination: normalized,
		},
	})

	return &updated, nil
}

// UpdateStyle replaces the visual options of an existing code and
// drops every cached artifact rendered with the old look.
func (s *Service) UpdateStyle(ctx context.Context, slug string, style Style, logoDataURI string) (*Code, error) {
	logger.CtxDebug(ctx, "Updating style", logger.LoggerInfo{
		ContextFunction: constant.CtxUpdateStyle,
		Data: map[string]interface{}{
			constant.DataSlug:      slug,
			constant.DataLogoRatio: style.LogoRatio,
		},
	})

	if slug == "" {
		logger.CtxWarn(ctx, "Slug cannot be empty", logger.LoggerInfo{
			ContextFunction: constant.CtxUpdateStyle,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeEmptySlug,
				Message: constant.ErrEmptySlug,
				Type:    constant.ErrTypeValidation,
			},
		})
		return nil, ErrEmptySlug
	}

	if err := s.checkStyle(ctx, constant.CtxUpdateStyle, style, logoDataURI); err != nil {
		return nil, err
	}

	code, err := s.fetchCode(ctx, constant.CtxUpdateStyle, slug)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStyle(ctx, slug, style, logoDataURI); err != nil {
		logger.CtxError(ctx, "Failed to update style", logger.LoggerInfo{
			ContextFunction: constant.CtxUpdateStyle,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeUpdateFailure,
				Message: err.Error(),
				Type:    constant.ErrTypeStorage,
			},
			Data: map[string]interface{}{
				constant.DataSlug: slug,
			},
		})
		return nil, err
	}

	if err := s.artifacts.Purge(ctx, slug); err != nil {
		// Stale rows are still fenced by the style hash check at read
		// time, so a purge failure is not fatal.
		logger.CtxWarn(ctx, "Failed to purge cached artifacts", logger.LoggerInfo{
			ContextFunction: constant.CtxUpdateStyle,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeDeleteFailure,
				Message: err.Error(),
				Type:    constant.ErrTypeStorage,
			},
			Data: map[string]interface{}{
				constant.DataSlug: slug,
			},
		})
	}
	s.cache.InvalidateNamespace(artifactNamespace(slug))

	updated := *code
	updated.Style = style
	updated.LogoDataURI = logoDataURI
	updated.UpdatedAt = time.Now()

	s.cache.Set(constant.CodeNamespace, slug, &updated)

	logger.CtxInfo(ctx, "Style successfully updated", logger.LoggerInfo{
		ContextFunction: constant.CtxUpdateStyle,
		Data: map[string]interface{}{
			constant.DataSlug:      slug,
			constant.DataStyleHash: style.Hash(logoDataURI),
		},
	})

	return &updated, nil
}

// DeleteCode removes a code and its cached artifacts. The managed
// link dies with it.
func (s *Service) DeleteCode(ctx context.Context, slug string) error {
	logger.CtxDebug(ctx, "Deleting code", logger.LoggerInfo{
		ContextFunction: constant.CtxDeleteCode,
		Data: map[string]interface{}{
			constant.DataSlug: slug,
		},
	})

	if slug == "" {
		logger.CtxWarn(ctx, "Slug cannot be empty", logger.LoggerInfo{
			ContextFunction: constant.CtxDeleteCode,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeEmptySlug,
				Message: constant.ErrEmptySlug,
				Type:    constant.ErrTypeValidation,
			},
		})
		return ErrEmptySlug
	}

	if _, err := s.fetchCode(ctx, constant.CtxDeleteCode, slug); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, slug); err != nil {
		logger.CtxError(ctx, "Failed to delete code", logger.LoggerInfo{
			ContextFunction: constant.CtxDeleteCode,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeDeleteFailure,
				Message: err.Error(),
				Type:    constant.ErrTypeStorage,
			},
			Data: map[string]interface{}{
				constant.DataSlug: slug,
			},
		})
		return err
	}

	if err := s.artifacts.Purge(ctx, slug); err != nil {
		logger.CtxWarn(ctx, "Failed to purge cached artifacts", logger.LoggerInfo{
			ContextFunction: constant.CtxDeleteCode,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeDeleteFailure,
				Message: err.Error(),
				Type:    constant.ErrTypeStorage,
			},
			Data: map[string]interface{}{
				constant.DataSlug: slug,
			},
		})
	}

	s.cache.Invalidate(constant.CodeNamespace, slug)
	s.cache.InvalidateNamespace(artifactNamespace(slug))

	logger.CtxInfo(ctx, "Code successfully deleted", logger.LoggerInfo{
		ContextFunction: constant.CtxDeleteCode,
		Data: map[string]interface{}{
			constant.DataSlug: slug,
		},
	})

	return nil
}

// Resolve looks up the destination for a scanned slug and counts the
// scan. The stored destination goes through the light redirect-time
// check first so a corrupted or bypassed row can never turn into a
// non-web redirect.
func (s *Service) Resolve(ctx context.Context, slug string) (*Code, error) {
	logger.CtxDebug(ctx, "Resolving slug", logger.LoggerInfo{
		ContextFunction: constant.CtxResolve,
		Data: map[string]interface{}{
			constant.DataSlug: slug,
		},
	})

	if slug == "" {
		logger.CtxWarn(ctx, "Slug cannot be empty", logger.LoggerInfo{
			ContextFunction: constant.CtxResolve,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeEmptySlug,
				Message: constant.ErrEmptySlug,
				Type:    constant.ErrTypeValidation,
			},
		})
		return nil, ErrEmptySlug
	}

	code, err := s.fetchCode(ctx, constant.CtxResolve, slug)
	if err != nil {
		return nil, err
	}

	if !urlcheck.AllowRedirect(code.Destination) {
		logger.CtxWarn(ctx, constant.MsgRedirectBlocked, logger.LoggerInfo{
			ContextFunction: constant.CtxResolve,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeUnsafeDestination,
				Message: constant.ErrUnsafeDestination,
				Type:    constant.ErrTypePolicy,
			},
			Data: map[string]interface{}{
				constant.DataSlug:        slug,
				constant.DataDestination: code.Destination,
			},
		})
		return nil, ErrUnsafeDestination
	}

	if err := s.repo.IncrementScans(ctx, slug); err != nil {
		// Log error but continue with the redirect
		logger.CtxWarn(ctx, "Failed to increment scan count", logger.LoggerInfo{
			ContextFunction: constant.CtxResolve,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeIncrementScans,
				Message: err.Error(),
				Type:    constant.ErrTypeStats,
			},
			Data: map[string]interface{}{
				constant.DataSlug: slug,
			},
		})
	} else {
		bumped := *code
		bumped.Scans++
		code = &bumped
		// Update the cache so reads see the new count
		s.cache.Set(constant.CodeNamespace, slug, code)

		logger.CtxDebug(ctx, "Scan count incremented", logger.LoggerInfo{
			ContextFunction: constant.CtxResolve,
			Data: map[string]interface{}{
				constant.DataSlug: slug,
			},
		})
	}

	logger.CtxInfo(ctx, "Slug resolved successfully", logger.LoggerInfo{
		ContextFunction: constant.CtxResolve,
		Data: map[string]interface{}{
			constant.DataSlug:        slug,
			constant.DataDestination: code.Destination,
			constant.DataScans:       code.Scans,
		},
	})

	return code, nil
}

// fetchCode reads a code through the in-memory cache.
func (s *Service) fetchCode(ctx context.Context, fn, slug string) (*Code, error) {
	val, found := s.cache.Get(constant.CodeNamespace, slug)
	if found {
		if code, ok := val.(*Code); ok {
			logger.CtxDebug(ctx, "Code retrieved from cache", logger.LoggerInfo{
				ContextFunction: fn,
				Data: map[string]interface{}{
					constant.DataSlug:     slug,
					constant.DataCacheHit: true,
				},
			})
			return code, nil
		}
	}

	code, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		logger.CtxWarn(ctx, "Failed to find code by slug", logger.LoggerInfo{
			ContextFunction: fn,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeSlugNotFound,
				Message: err.Error(),
				Type:    constant.ErrTypeRetrieval,
			},
			Data: map[string]interface{}{
				constant.DataSlug: slug,
			},
		})
		return nil, err
	}

	s.cache.Set(constant.CodeNamespace, slug, code)
	return code, nil
}

// checkDestination runs the strict storage-time policy and maps a
// rejection onto the domain sentinels. On success it returns the
// normalized URL to store.
func (s *Service) checkDestination(ctx context.Context, fn, destination string) (string, error) {
	verdict := urlcheck.ValidateStrict(destination)
	if verdict.Valid {
		return verdict.Normalized, nil
	}

	logger.CtxWarn(ctx, constant.MsgDestinationRejected, logger.LoggerInfo{
		ContextFunction: fn,
		Error: &logger.CustomError{
			Code:    verdict.Rule.ErrorCode(),
			Message: verdict.Message,
			Type:    constant.ErrTypeValidation,
		},
		Data: map[string]interface{}{
			constant.DataRule: string(verdict.Rule),
		},
	})

	if verdict.Rule == urlcheck.RuleEmptyInput {
		return "", ErrEmptyDestination
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidDestination, verdict.Message)
}

// checkStyle validates style and logo together and logs the
// scannability advisory when the logo is large.
func (s *Service) checkStyle(ctx context.Context, fn string, style Style, logoDataURI string) error {
	if err := style.Validate(); err != nil {
		logger.CtxWarn(ctx, "Style rejected", logger.LoggerInfo{
			ContextFunction: fn,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeInvalidStyle,
				Message: err.Error(),
				Type:    constant.ErrTypeValidation,
			},
		})
		return err
	}

	if err := ValidateLogoDataURI(logoDataURI); err != nil {
		logger.CtxWarn(ctx, "Logo rejected", logger.LoggerInfo{
			ContextFunction: fn,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeInvalidStyle,
				Message: err.Error(),
				Type:    constant.ErrTypeValidation,
			},
		})
		return err
	}

	if style.LogoRatio > render.LogoRatioWarn {
		logger.CtxWarn(ctx, constant.MsgLogoRatioAboveAdvised, logger.LoggerInfo{
			ContextFunction: fn,
			Data: map[string]interface{}{
				constant.DataLogoRatio: style.LogoRatio,
			},
		})
	}

	return nil
}

// allocateSlug draws random slugs until one is free.
func (s *Service) allocateSlug(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		slug, err := generateSlug(slugLength)
		if err != nil {
			logger.CtxError(ctx, "Failed to generate slug", logger.LoggerInfo{
				ContextFunction: constant.CtxCreateCode,
				Error: &logger.CustomError{
					Code:    constant.ErrCodeStorageFailure,
					Message: err.Error(),
					Type:    constant.ErrTypeStorage,
				},
			})
			return "", err
		}

		_, err = s.repo.FindBySlug(ctx, slug)
		if errors.Is(err, ErrSlugNotFound) {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		// Collision, draw again
	}
	return "", fmt.Errorf("could not allocate a free slug")
}

func artifactNamespace(slug string) string {
	return constant.ArtifactNamespace + ":" + slug
}
