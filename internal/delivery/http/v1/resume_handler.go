package v1

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"go-portfolio-backend/internal/delivery/http/response"
	"go-portfolio-backend/internal/domain"
	"go-portfolio-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// Accepted resume upload formats. Content type alone is not trusted; the
// extension is checked as well since browsers are sloppy about both.
var allowedResumeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

var allowedResumeExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// matchesMagic checks the file's leading bytes against its extension.
func matchesMagic(ext string, content []byte) bool {
	switch ext {
	case ".pdf":
		return bytes.HasPrefix(content, []byte("%PDF-"))
	case ".docx":
		// docx is a zip container
		return bytes.HasPrefix(content, []byte("PK\x03\x04"))
	case ".doc":
		return bytes.HasPrefix(content, []byte{0xD0, 0xCF, 0x11, 0xE0})
	}
	return false
}

type ResumeHandler struct {
	importUC domain.ImportUsecase
	maxSize  int64
}

// NewResumeHandler registers the resume import routes.
func NewResumeHandler(protected *gin.RouterGroup, importUC domain.ImportUsecase, maxSize int64, uploadLimiter gin.HandlerFunc) {
	handler := &ResumeHandler{
		importUC: importUC,
		maxSize:  maxSize,
	}

	resume := protected.Group("/resume")
	{
		resume.POST("/upload", uploadLimiter, handler.Upload)
		resume.GET("/:id/staged", handler.GetStaged)
		resume.PUT("/:id/staged", handler.UpdateStaged)
		resume.POST("/:id/selection", handler.UpdateSelection)
		resume.POST("/:id/confirm", handler.Confirm)
	}
}

func (h *ResumeHandler) resumeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Resume id must be a number"))
		return 0, false
	}
	return id, true
}

// Upload godoc
// @Summary      Upload Resume
// @Description  Uploads a resume (PDF or Word, max 10 MiB), runs AI extraction and stages the result for review. Nothing touches the draft until the import is confirmed.
// @Tags         resume
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Resume file"
// @Success      200   {object}  response.Response{data=domain.StagedResume}
// @Failure      400   {object}  response.Response
// @Failure      422   {object}  response.Response
// @Failure      502   {object}  response.Response
// @Router       /resume/upload [post]
func (h *ResumeHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.BadRequest("A resume file is required"))
		return
	}

	if fileHeader.Size > h.maxSize {
		c.Error(apperror.BadRequest("Resume file exceeds the maximum allowed size"))
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedResumeExtensions[ext] || !allowedResumeTypes[contentType] {
		c.Error(apperror.BadRequest("Only PDF and Word documents are accepted"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.BadRequest("Could not read the uploaded file"))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, h.maxSize+1))
	if err != nil {
		c.Error(apperror.BadRequest("Could not read the uploaded file"))
		return
	}
	if int64(len(content)) > h.maxSize {
		c.Error(apperror.BadRequest("Resume file exceeds the maximum allowed size"))
		return
	}
	if !matchesMagic(ext, content) {
		c.Error(apperror.BadRequest("File content does not match its declared format"))
		return
	}

	staged, err := h.importUC.Upload(c.Request.Context(), userID(c), fileHeader.Filename, content)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resume extracted", staged)
}

// GetStaged godoc
// @Summary      Get Staged Import
// @Description  Returns the extracted data awaiting review together with the current selection.
// @Tags         resume
// @Produce      json
// @Param        id   path      int  true  "Resume upload ID"
// @Success      200  {object}  response.Response{data=domain.StagedResume}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /resume/{id}/staged [get]
func (h *ResumeHandler) GetStaged(c *gin.Context) {
	id, ok := h.resumeID(c)
	if !ok {
		return
	}

	staged, err := h.importUC.GetStaged(c.Request.Context(), userID(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Staged import retrieved", staged)
}

// UpdateStaged godoc
// @Summary      Edit Staged Import
// @Description  Replaces the staged data with edited values. The selection resets to everything selected because item indices may have shifted.
// @Tags         resume
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "Resume upload ID"
// @Param        data  body      domain.ResumeData  true  "Edited extraction data"
// @Success      200   {object}  response.Response{data=domain.StagedResume}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /resume/{id}/staged [put]
func (h *ResumeHandler) UpdateStaged(c *gin.Context) {
	id, ok := h.resumeID(c)
	if !ok {
		return
	}

	var req domain.ResumeData
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	staged, err := h.importUC.UpdateStaged(c.Request.Context(), userID(c), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Staged import updated", staged)
}

type selectionRequest struct {
	Action     string `json:"action" binding:"required"`
	Collection string `json:"collection" binding:"required"`
	Index      int    `json:"index"`
}

// UpdateSelection godoc
// @Summary      Update Import Selection
// @Description  Toggles one staged item or (de)selects a whole collection. Actions: toggle, select_all, deselect_all.
// @Tags         resume
// @Accept       json
// @Produce      json
// @Param        id         path      int               true  "Resume upload ID"
// @Param        selection  body      selectionRequest  true  "Selection change"
// @Success      200        {object}  response.Response{data=domain.StagedResume}
// @Failure      400        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Router       /resume/{id}/selection [post]
func (h *ResumeHandler) UpdateSelection(c *gin.Context) {
	id, ok := h.resumeID(c)
	if !ok {
		return
	}

	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	staged, err := h.importUC.UpdateSelection(c.Request.Context(), userID(c), id, req.Action, req.Collection, req.Index)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Selection updated", staged)
}

// Confirm godoc
// @Summary      Confirm Import
// @Description  Merges the selected staged items into the draft and saves it. Existing profile values win; duplicate items are skipped.
// @Tags         resume
// @Produce      json
// @Param        id   path      int  true  "Resume upload ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /resume/{id}/confirm [post]
func (h *ResumeHandler) Confirm(c *gin.Context) {
	id, ok := h.resumeID(c)
	if !ok {
		return
	}

	if err := h.importUC.Confirm(c.Request.Context(), userID(c), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resume data merged into draft", nil)
}
