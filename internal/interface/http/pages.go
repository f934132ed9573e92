package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"

	"github.com/yanqian/birthchart/internal/domain/birthchart"
	apperrors "github.com/yanqian/birthchart/pkg/errors"
)

// ShowForm renders the form together with the visitor's latest view.
func (h *Handler) ShowForm(c *gin.Context) {
	sessionID := h.session.ensure(c)
	view, err := h.chartSvc.Current(c.Request.Context(), sessionID)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	h.renderIndex(c, http.StatusOK, view, "")
}

// SubmitForm runs a submission and redirects back to the form.
func (h *Handler) SubmitForm(c *gin.Context) {
	var form birthchart.FormInput
	if err := c.ShouldBind(&form); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "malformed form", err))
		return
	}

	sessionID := h.session.ensure(c)
	_, err := h.chartSvc.Submit(c.Request.Context(), sessionID, form)
	switch {
	case err == nil:
		c.Redirect(http.StatusSeeOther, "/")
	case apperrors.IsCode(err, apperrors.CodeInvalidInput):
		view := birthchart.View{
			Status: birthchart.StatusError,
			Form:   form.Normalize(),
			Error:  apperrors.UserMessage(err),
		}
		h.renderIndex(c, http.StatusUnprocessableEntity, view, "")
	case apperrors.IsCode(err, apperrors.CodeInProgress):
		view, loadErr := h.chartSvc.Current(c.Request.Context(), sessionID)
		if loadErr != nil {
			abortWithError(c, fromDomainError(loadErr))
			return
		}
		h.renderIndex(c, http.StatusConflict, view, apperrors.UserMessage(err))
	default:
		abortWithError(c, fromDomainError(err))
	}
}

func (h *Handler) renderIndex(c *gin.Context, status int, view birthchart.View, notice string) {
	data := pageData{
		View:        view,
		Form:        view.Form,
		Rows:        birthchart.Rows(view.Result),
		Notice:      notice,
		CSRFField:   csrf.TemplateField(c.Request),
		Ayanamshas:  birthchart.Ayanamshas,
		Loading:     birthchart.MessageLoading,
		Unavailable: birthchart.MessageChartUnavailable,
	}
	if data.Form.Ayanamsha == "" {
		data.Form.Ayanamsha = string(birthchart.DefaultAyanamsha)
	}
	if err := h.pages.render(c.Writer, status, "index.gohtml", data); err != nil {
		h.logger.Error("render page failed", "error", err)
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "internal_error", "something went wrong", err))
	}
}
