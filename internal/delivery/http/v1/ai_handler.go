package v1

import (
	"net/http"

	"go-portfolio-backend/internal/delivery/http/response"
	"go-portfolio-backend/internal/domain"
	"go-portfolio-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	enhanceUC domain.EnhanceUsecase
}

// NewAIHandler registers the AI assistance routes.
func NewAIHandler(protected *gin.RouterGroup, enhanceUC domain.EnhanceUsecase, aiLimiter gin.HandlerFunc) {
	handler := &AIHandler{
		enhanceUC: enhanceUC,
	}

	protected.POST("/ai/enhance-description", aiLimiter, handler.EnhanceDescription)
}

// EnhanceDescription godoc
// @Summary      Enhance Project Description
// @Description  Asks the AI service to rewrite a project description and returns up to three candidate variants. Nothing is applied to the draft; picking a variant is a separate client-side edit.
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        input  body      domain.EnhanceInput  true  "Description to enhance"
// @Success      200    {object}  response.Response{data=[]domain.EnhancementVariant}
// @Failure      400    {object}  response.Response
// @Failure      422    {object}  response.Response
// @Failure      502    {object}  response.Response
// @Router       /ai/enhance-description [post]
func (h *AIHandler) EnhanceDescription(c *gin.Context) {
	var req domain.EnhanceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	variants, err := h.enhanceUC.EnhanceDescription(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Variants generated", variants)
}
