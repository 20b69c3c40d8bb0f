package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/admin-console/internal/model"
	"github.com/psds-microservice/admin-console/internal/workflow"
)

// ReviewHandler exposes one review controller (KYC or tickets) of the caller's workspace.
type ReviewHandler[T any] struct {
	workspaces *workflow.Registry
	pick       func(*workflow.Workspace) *workflow.Controller[T]
}

func NewKYCHandler(reg *workflow.Registry) *ReviewHandler[model.KYCApplication] {
	return &ReviewHandler[model.KYCApplication]{
		workspaces: reg,
		pick:       func(ws *workflow.Workspace) *workflow.Controller[model.KYCApplication] { return ws.KYC },
	}
}

func NewTicketHandler(reg *workflow.Registry) *ReviewHandler[model.ContactInquiry] {
	return &ReviewHandler[model.ContactInquiry]{
		workspaces: reg,
		pick:       func(ws *workflow.Workspace) *workflow.Controller[model.ContactInquiry] { return ws.Tickets },
	}
}

func (h *ReviewHandler[T]) resolve(c *gin.Context) (*workflow.Workspace, *workflow.Controller[T]) {
	ws := h.workspaces.For(currentSession(c))
	return ws, h.pick(ws)
}

// reply writes the controller state with whatever notifications are pending.
func (h *ReviewHandler[T]) reply(c *gin.Context, ws *workflow.Workspace, ctrl *workflow.Controller[T], err error, extra gin.H) {
	body := gin.H{}
	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
		body = errorBody(err)
	}
	for k, v := range extra {
		body[k] = v
	}
	body["state"] = ctrl.State()
	body["notifications"] = ws.Inbox.Drain()
	c.JSON(status, body)
}

// List loads a page. Query parameters override the current filters; with none it reloads.
// Changing any filter other than page starts again from page 1.
func (h *ReviewHandler[T]) List(c *gin.Context) {
	ws, ctrl := h.resolve(c)
	f, err := ctrl.Filters().ApplyQuery(c.Request.URL.Query())
	if err != nil {
		h.reply(c, ws, ctrl, err, nil)
		return
	}
	err = ctrl.Load(c.Request.Context(), f)
	h.reply(c, ws, ctrl, err, nil)
}

type filterRequest struct {
	Key   model.FilterKey `json:"key" binding:"required"`
	Value string          `json:"value"`
}

// SetFilter changes one filter and reloads the list.
func (h *ReviewHandler[T]) SetFilter(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	ws, ctrl := h.resolve(c)
	if _, err := ctrl.SetFilter(req.Key, req.Value); err != nil {
		h.reply(c, ws, ctrl, err, nil)
		return
	}
	err := ctrl.Reload(c.Request.Context())
	h.reply(c, ws, ctrl, err, nil)
}

func (h *ReviewHandler[T]) Stats(c *gin.Context) {
	_, ctrl := h.resolve(c)
	st, err := ctrl.LoadStats(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": st})
}

// Select opens one record in detail mode.
func (h *ReviewHandler[T]) Select(c *gin.Context) {
	ws, ctrl := h.resolve(c)
	err := ctrl.SelectByID(c.Request.Context(), c.Param("id"))
	h.reply(c, ws, ctrl, err, nil)
}

func (h *ReviewHandler[T]) Back(c *gin.Context) {
	ws, ctrl := h.resolve(c)
	ctrl.Reset()
	h.reply(c, ws, ctrl, nil, nil)
}

func (h *ReviewHandler[T]) Action(c *gin.Context) {
	var a workflow.Action
	if err := c.ShouldBindJSON(&a); err != nil {
		badRequest(c, "invalid body")
		return
	}
	ws, ctrl := h.resolve(c)
	rec, err := ctrl.ApplyAction(c.Request.Context(), a)
	var extra gin.H
	if err == nil {
		extra = gin.H{"record": rec}
	}
	h.reply(c, ws, ctrl, err, extra)
}

type bulkRequest struct {
	IDs []string `json:"ids"`
	workflow.Action
}

func (h *ReviewHandler[T]) Bulk(c *gin.Context) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	ws, ctrl := h.resolve(c)
	n, err := ctrl.BulkApply(c.Request.Context(), req.IDs, req.Action)
	h.reply(c, ws, ctrl, err, gin.H{"modified": n})
}

func (h *ReviewHandler[T]) State(c *gin.Context) {
	ws, ctrl := h.resolve(c)
	h.reply(c, ws, ctrl, nil, nil)
}
