package handlers

import (
	"errors"
	"testing"

	"hypeshelf/internal/apperrors"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantKind   string
		wantStatus int
	}{
		{
			name:       "auth required",
			err:        apperrors.AuthRequired(),
			wantKind:   "AuthRequired",
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "permission denied",
			err:        apperrors.PermissionDenied(),
			wantKind:   "PermissionDenied",
			wantStatus: fiber.StatusForbidden,
		},
		{
			name:       "not found",
			err:        apperrors.NotFound("recommendation", "abc"),
			wantKind:   "NotFound",
			wantStatus: fiber.StatusNotFound,
		},
		{
			name:       "invalid title",
			err:        apperrors.InvalidTitle("title is required"),
			wantKind:   "InvalidTitle",
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "invalid blurb",
			err:        apperrors.InvalidBlurb("too long"),
			wantKind:   "InvalidBlurb",
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "invalid link",
			err:        apperrors.InvalidLink("bad scheme"),
			wantKind:   "InvalidLink",
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "invalid genre",
			err:        apperrors.InvalidGenre("Poetry"),
			wantKind:   "InvalidGenre",
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "unknown error is opaque",
			err:        errors.New("boom"),
			wantKind:   "",
			wantStatus: fiber.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			kind, status := kindOf(tc.err)
			assert.Equal(t, tc.wantKind, kind)
			assert.Equal(t, tc.wantStatus, status)
		})
	}
}
