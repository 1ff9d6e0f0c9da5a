package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tutorhq/onboarding-api/internal/middleware"
	"github.com/tutorhq/onboarding-api/internal/models"
	appErrors "github.com/tutorhq/onboarding-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// ownerKindFromParam maps the :kind path segment onto an owner kind.
// Both the plural route form ("tutors") and the enum form ("TUTOR") parse.
func ownerKindFromParam(raw string) (models.OwnerKind, error) {
	switch strings.ToUpper(strings.TrimSuffix(strings.ToLower(raw), "s")) {
	case "TUTOR":
		return models.OwnerKindTutor, nil
	case "REVIEWER":
		return models.OwnerKindReviewer, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "unknown owner kind: "+raw)
	}
}

func parseTimeQuery(c *gin.Context, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, name+" query parameter is required")
	}
	// Accept full timestamps and bare dates.
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, name+" must be RFC3339 or YYYY-MM-DD")
	}
	return t.UTC(), nil
}
