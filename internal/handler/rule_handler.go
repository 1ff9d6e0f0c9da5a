package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tutorhq/onboarding-api/internal/models"
	"github.com/tutorhq/onboarding-api/internal/service"
	appErrors "github.com/tutorhq/onboarding-api/pkg/errors"
	"github.com/tutorhq/onboarding-api/pkg/response"
)

// RuleHandler exposes availability rule lifecycle endpoints.
type RuleHandler struct {
	rules *service.RuleService
}

// NewRuleHandler constructs RuleHandler.
func NewRuleHandler(rules *service.RuleService) *RuleHandler {
	return &RuleHandler{rules: rules}
}

// List godoc
// @Summary List an owner's availability rules
// @Tags Rules
// @Produce json
// @Param kind path string true "Owner kind"
// @Param id path string true "Owner ID"
// @Param ruleKind query string false "Filter by rule kind"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /owners/{kind}/{id}/rules [get]
func (h *RuleHandler) List(c *gin.Context) {
	kind, err := ownerKindFromParam(c.Param("kind"))
	if err != nil {
		response.Error(c, err)
		return
	}

	filter := models.RuleFilter{OwnerID: c.Param("id"), OwnerKind: kind}
	if raw := strings.ToUpper(c.Query("ruleKind")); raw != "" {
		ruleKind := models.RuleKind(raw)
		if !ruleKind.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown rule kind: "+raw))
			return
		}
		filter.Kind = &ruleKind
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	rules, pagination, err := h.rules.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rules, pagination)
}

// CreateOneOff godoc
// @Summary Add a one-off availability slot
// @Tags Rules
// @Accept json
// @Produce json
// @Param kind path string true "Owner kind"
// @Param id path string true "Owner ID"
// @Param payload body service.CreateOneOffSlotRequest true "Slot payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Slot overlaps an existing rule"
// @Router /owners/{kind}/{id}/rules/one-off [post]
func (h *RuleHandler) CreateOneOff(c *gin.Context) {
	kind, err := ownerKindFromParam(c.Param("kind"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.CreateOneOffSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.OwnerID = c.Param("id")
	req.OwnerKind = kind

	rule, err := h.rules.CreateOneOffSlot(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rule)
}

// CreateExclusion godoc
// @Summary Block time for an owner
// @Tags Rules
// @Accept json
// @Produce json
// @Param kind path string true "Owner kind"
// @Param id path string true "Owner ID"
// @Param payload body service.CreateExclusionRequest true "Exclusion payload"
// @Success 201 {object} response.Envelope
// @Router /owners/{kind}/{id}/rules/exclusions [post]
func (h *RuleHandler) CreateExclusion(c *gin.Context) {
	kind, err := ownerKindFromParam(c.Param("kind"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.CreateExclusionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.OwnerID = c.Param("id")
	req.OwnerKind = kind

	rules, err := h.rules.CreateExclusion(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rules)
}

// ReplaceStandard godoc
// @Summary Replace the owner's recurring weekly schedule
// @Tags Rules
// @Accept json
// @Produce json
// @Param kind path string true "Owner kind"
// @Param id path string true "Owner ID"
// @Param payload body service.ReplaceStandardRulesRequest true "Weekly schedule"
// @Success 200 {object} response.Envelope
// @Router /owners/{kind}/{id}/rules/standard [put]
func (h *RuleHandler) ReplaceStandard(c *gin.Context) {
	kind, err := ownerKindFromParam(c.Param("kind"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.ReplaceStandardRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.OwnerID = c.Param("id")
	req.OwnerKind = kind

	rules, err := h.rules.ReplaceStandardRules(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rules, nil)
}

// Update godoc
// @Summary Update a rule
// @Tags Rules
// @Accept json
// @Produce json
// @Param kind path string true "Owner kind"
// @Param id path string true "Owner ID"
// @Param ruleId path string true "Rule ID"
// @Param payload body service.UpdateRuleRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /owners/{kind}/{id}/rules/{ruleId} [patch]
func (h *RuleHandler) Update(c *gin.Context) {
	kind, err := ownerKindFromParam(c.Param("kind"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	rule, err := h.rules.UpdateRule(c.Request.Context(), c.Param("ruleId"), c.Param("id"), kind, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rule, nil)
}

// Delete godoc
// @Summary Delete a rule
// @Tags Rules
// @Produce json
// @Param kind path string true "Owner kind"
// @Param id path string true "Owner ID"
// @Param ruleId path string true "Rule ID"
// @Success 204 "No Content"
// @Router /owners/{kind}/{id}/rules/{ruleId} [delete]
func (h *RuleHandler) Delete(c *gin.Context) {
	kind, err := ownerKindFromParam(c.Param("kind"))
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.rules.DeleteRule(c.Request.Context(), c.Param("ruleId"), c.Param("id"), kind); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
