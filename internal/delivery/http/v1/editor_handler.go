package v1

import (
	"net/http"

	"go-portfolio-backend/internal/delivery/http/response"
	"go-portfolio-backend/internal/domain"
	"go-portfolio-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type EditorHandler struct {
	editorUC domain.EditorUsecase
}

// NewEditorHandler registers the draft editing and publishing routes.
func NewEditorHandler(protected *gin.RouterGroup, editorUC domain.EditorUsecase) {
	handler := &EditorHandler{
		editorUC: editorUC,
	}

	editor := protected.Group("/portfolio/editor")
	{
		editor.GET("", handler.GetDraft)
		editor.GET("/status", handler.GetSaveStatus)
		editor.POST("/flush", handler.Flush)
		editor.PATCH("/profile", handler.UpdateProfile)
		editor.PUT("/theme", handler.SetTheme)
		editor.PUT("/projects", handler.UpsertProject)
		editor.DELETE("/projects/:id", handler.DeleteProject)
		editor.PUT("/skills", handler.UpsertSkill)
		editor.DELETE("/skills/:name", handler.DeleteSkill)
		editor.PUT("/achievements", handler.UpsertAchievement)
		editor.DELETE("/achievements/:id", handler.DeleteAchievement)
		editor.PUT("/certificates", handler.UpsertCertificate)
		editor.DELETE("/certificates/:title", handler.DeleteCertificate)
	}

	protected.POST("/portfolio/publish", handler.Publish)
	protected.DELETE("/portfolio/session", handler.CloseSession)
}

func userID(c *gin.Context) string {
	return c.GetString("UserID")
}

// GetDraft godoc
// @Summary      Get Draft
// @Description  Returns the user's full in-progress portfolio draft, loading it from the store on first access.
// @Tags         editor
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Draft}
// @Failure      502  {object}  response.Response
// @Router       /portfolio/editor [get]
func (h *EditorHandler) GetDraft(c *gin.Context) {
	draft, err := h.editorUC.GetDraft(c.Request.Context(), userID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Draft retrieved", draft)
}

// GetSaveStatus godoc
// @Summary      Get Save Status
// @Description  Returns the autosave status of the draft: saved, saving or unsaved.
// @Tags         editor
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /portfolio/editor/status [get]
func (h *EditorHandler) GetSaveStatus(c *gin.Context) {
	status, err := h.editorUC.SaveStatus(c.Request.Context(), userID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Save status retrieved", gin.H{"status": status})
}

// Flush godoc
// @Summary      Flush Draft
// @Description  Saves the draft immediately, bypassing the autosave quiet period. Used as the manual retry after a failed save.
// @Tags         editor
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /portfolio/editor/flush [post]
func (h *EditorHandler) Flush(c *gin.Context) {
	if err := h.editorUC.Flush(c.Request.Context(), userID(c)); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Draft saved", nil)
}

// UpdateProfile godoc
// @Summary      Update Profile
// @Description  Applies a partial profile edit; omitted fields are left untouched.
// @Tags         editor
// @Accept       json
// @Produce      json
// @Param        profile  body      domain.ProfileUpdate  true  "Profile fields to change"
// @Success      200      {object}  response.Response{data=domain.Profile}
// @Failure      400      {object}  response.Response
// @Router       /portfolio/editor/profile [patch]
func (h *EditorHandler) UpdateProfile(c *gin.Context) {
	var req domain.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	profile, err := h.editorUC.UpdateProfile(c.Request.Context(), userID(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", profile)
}

type themeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

// SetTheme godoc
// @Summary      Set Theme Preference
// @Description  Stores the selected portfolio theme in the draft.
// @Tags         editor
// @Accept       json
// @Produce      json
// @Param        theme  body      themeRequest  true  "Theme name"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Router       /portfolio/editor/theme [put]
func (h *EditorHandler) SetTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if err := h.editorUC.SetThemePreference(c.Request.Context(), userID(c), req.Theme); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Theme updated", nil)
}

// UpsertProject godoc
// @Summary      Upsert Project
// @Description  Creates a project (when no id is given) or replaces the one with a matching id.
// @Tags         editor
// @Accept       json
// @Produce      json
// @Param        project  body      domain.Project  true  "Project"
// @Success      200      {object}  response.Response{data=domain.Project}
// @Failure      400      {object}  response.Response
// @Router       /portfolio/editor/projects [put]
func (h *EditorHandler) UpsertProject(c *gin.Context) {
	var req domain.Project
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	project, err := h.editorUC.UpsertProject(c.Request.Context(), userID(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Project saved", project)
}

// DeleteProject godoc
// @Summary      Delete Project
// @Tags         editor
// @Produce      json
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /portfolio/editor/projects/{id} [delete]
func (h *EditorHandler) DeleteProject(c *gin.Context) {
	if err := h.editorUC.DeleteProject(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Project removed", nil)
}

// UpsertSkill godoc
// @Summary      Upsert Skill
// @Description  Creates or replaces a skill, keyed by name. Level runs 0-100; the display tier is derived from it.
// @Tags         editor
// @Accept       json
// @Produce      json
// @Param        skill  body      domain.Skill  true  "Skill"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Router       /portfolio/editor/skills [put]
func (h *EditorHandler) UpsertSkill(c *gin.Context) {
	var req domain.Skill
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if err := h.editorUC.UpsertSkill(c.Request.Context(), userID(c), req); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Skill saved", nil)
}

// DeleteSkill godoc
// @Summary      Delete Skill
// @Tags         editor
// @Produce      json
// @Param        name  path      string  true  "Skill name"
// @Success      200   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /portfolio/editor/skills/{name} [delete]
func (h *EditorHandler) DeleteSkill(c *gin.Context) {
	if err := h.editorUC.DeleteSkill(c.Request.Context(), userID(c), c.Param("name")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Skill removed", nil)
}

// UpsertAchievement godoc
// @Summary      Upsert Achievement
// @Description  Creates or replaces an achievement. Type "internship" marks a work experience; any other type is an award category.
// @Tags         editor
// @Accept       json
// @Produce      json
// @Param        achievement  body      domain.Achievement  true  "Achievement"
// @Success      200          {object}  response.Response{data=domain.Achievement}
// @Failure      400          {object}  response.Response
// @Router       /portfolio/editor/achievements [put]
func (h *EditorHandler) UpsertAchievement(c *gin.Context) {
	var req domain.Achievement
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	achievement, err := h.editorUC.UpsertAchievement(c.Request.Context(), userID(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Achievement saved", achievement)
}

// DeleteAchievement godoc
// @Summary      Delete Achievement
// @Tags         editor
// @Produce      json
// @Param        id   path      string  true  "Achievement ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /portfolio/editor/achievements/{id} [delete]
func (h *EditorHandler) DeleteAchievement(c *gin.Context) {
	if err := h.editorUC.DeleteAchievement(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Achievement removed", nil)
}

// UpsertCertificate godoc
// @Summary      Upsert Certificate
// @Description  Creates or replaces a certificate, keyed by title.
// @Tags         editor
// @Accept       json
// @Produce      json
// @Param        certificate  body      domain.Certificate  true  "Certificate"
// @Success      200          {object}  response.Response
// @Failure      400          {object}  response.Response
// @Router       /portfolio/editor/certificates [put]
func (h *EditorHandler) UpsertCertificate(c *gin.Context) {
	var req domain.Certificate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if err := h.editorUC.UpsertCertificate(c.Request.Context(), userID(c), req); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Certificate saved", nil)
}

// DeleteCertificate godoc
// @Summary      Delete Certificate
// @Tags         editor
// @Produce      json
// @Param        title  path      string  true  "Certificate title"
// @Success      200    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /portfolio/editor/certificates/{title} [delete]
func (h *EditorHandler) DeleteCertificate(c *gin.Context) {
	if err := h.editorUC.DeleteCertificate(c.Request.Context(), userID(c), c.Param("title")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Certificate removed", nil)
}

type publishRequest struct {
	Confirm bool `json:"confirm"`
}

// Publish godoc
// @Summary      Publish Portfolio
// @Description  Flushes the draft and promotes it to the live portfolio. Requires {"confirm": true}; publishing is the only operation that touches live data.
// @Tags         editor
// @Accept       json
// @Produce      json
// @Param        body  body      publishRequest  true  "Confirmation"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Failure      502   {object}  response.Response
// @Router       /portfolio/publish [post]
func (h *EditorHandler) Publish(c *gin.Context) {
	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	msg, err := h.editorUC.Publish(c.Request.Context(), userID(c), req.Confirm)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, msg, nil)
}

// CloseSession godoc
// @Summary      Close Editing Session
// @Description  Discards the in-memory editing session. Unsaved changes are lost; the stored draft is untouched.
// @Tags         editor
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /portfolio/session [delete]
func (h *EditorHandler) CloseSession(c *gin.Context) {
	h.editorUC.CloseSession(userID(c))
	response.Success(c, http.StatusOK, "Session closed", nil)
}
