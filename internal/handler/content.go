package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/admin-console/internal/apiclient"
	"github.com/psds-microservice/admin-console/internal/dto"
	"github.com/psds-microservice/admin-console/internal/errs"
	"github.com/psds-microservice/admin-console/internal/model"
	"github.com/psds-microservice/admin-console/internal/transform"
	"github.com/psds-microservice/admin-console/internal/validation"
)

const maxUploadBytes = 10 << 20

// ContentHandler forwards the non-workflow screens (blogs, products, staff,
// activity logs, media) to the marketplace API. Responses use the Result shape.
type ContentHandler struct {
	api *apiclient.Client
}

func NewContentHandler(api *apiclient.Client) *ContentHandler {
	return &ContentHandler{api: api}
}

func respond[T any](c *gin.Context, okStatus int, v T, err error) {
	res := apiclient.Capture(v, err)
	if err != nil {
		c.JSON(statusFor(err), res)
		return
	}
	c.JSON(okStatus, res)
}

func token(c *gin.Context) string {
	if s := currentSession(c); s != nil {
		return s.Token
	}
	return ""
}

func listFilters(c *gin.Context) (model.Filters, bool) {
	f := model.DefaultFilters()
	if err := c.ShouldBindQuery(&f); err != nil {
		badRequest(c, "invalid query")
		return f, false
	}
	return f.Normalize(), true
}

// bindValid decodes the body into v and runs its validate tags before anything goes upstream.
func bindValid(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		badRequest(c, "invalid body")
		return false
	}
	if err := validation.Struct(v); err != nil {
		abortWithError(c, err)
		return false
	}
	return true
}

// Blogs

func (h *ContentHandler) ListBlogs(c *gin.Context) {
	f, ok := listFilters(c)
	if !ok {
		return
	}
	page, err := h.api.ListBlogs(c.Request.Context(), token(c), f)
	respond(c, http.StatusOK, page, err)
}

func (h *ContentHandler) GetBlog(c *gin.Context) {
	b, err := h.api.GetBlog(c.Request.Context(), token(c), c.Param("id"))
	respond(c, http.StatusOK, b, err)
}

func (h *ContentHandler) CreateBlog(c *gin.Context) {
	var in dto.BlogDTO
	if !bindValid(c, &in) {
		return
	}
	b, err := h.api.CreateBlog(c.Request.Context(), token(c), in)
	respond(c, http.StatusCreated, b, err)
}

func (h *ContentHandler) UpdateBlog(c *gin.Context) {
	var in dto.BlogDTO
	if !bindValid(c, &in) {
		return
	}
	b, err := h.api.UpdateBlog(c.Request.Context(), token(c), c.Param("id"), in)
	respond(c, http.StatusOK, b, err)
}

func (h *ContentHandler) DeleteBlog(c *gin.Context) {
	err := h.api.DeleteBlog(c.Request.Context(), token(c), c.Param("id"))
	respond(c, http.StatusOK, gin.H{"deleted": err == nil}, err)
}

func (h *ContentHandler) ListCategories(c *gin.Context) {
	cats, err := h.api.ListBlogCategories(c.Request.Context(), token(c))
	respond(c, http.StatusOK, cats, err)
}

func (h *ContentHandler) CreateCategory(c *gin.Context) {
	var in dto.BlogCategoryDTO
	if !bindValid(c, &in) {
		return
	}
	cat, err := h.api.CreateBlogCategory(c.Request.Context(), token(c), in)
	respond(c, http.StatusCreated, cat, err)
}

func (h *ContentHandler) UpdateCategory(c *gin.Context) {
	var in dto.BlogCategoryDTO
	if !bindValid(c, &in) {
		return
	}
	cat, err := h.api.UpdateBlogCategory(c.Request.Context(), token(c), c.Param("id"), in)
	respond(c, http.StatusOK, cat, err)
}

func (h *ContentHandler) DeleteCategory(c *gin.Context) {
	err := h.api.DeleteBlogCategory(c.Request.Context(), token(c), c.Param("id"))
	respond(c, http.StatusOK, gin.H{"deleted": err == nil}, err)
}

// Products

type productPage struct {
	Products   []model.Product  `json:"products"`
	Pagination model.Pagination `json:"pagination"`
}

func (h *ContentHandler) ListProducts(c *gin.Context) {
	f, ok := listFilters(c)
	if !ok {
		return
	}
	page, err := h.api.ListProducts(c.Request.Context(), token(c), f)
	out := productPage{
		Products:   transform.TransformBackendProducts(page.Products),
		Pagination: transform.TransformPagination(page.Pagination, f.Limit),
	}
	respond(c, http.StatusOK, out, err)
}

func (h *ContentHandler) GetProduct(c *gin.Context) {
	p, err := h.api.GetProduct(c.Request.Context(), token(c), c.Param("id"))
	respond(c, http.StatusOK, transform.TransformBackendProduct(p), err)
}

type productStatusRequest struct {
	Status model.ProductStatus `json:"status"`
}

func (h *ContentHandler) UpdateProductStatus(c *gin.Context) {
	var req productStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	if !req.Status.Valid() {
		abortWithError(c, &errs.ValidationError{Fields: map[string]string{"status": "unknown product status"}})
		return
	}
	p, err := h.api.UpdateProductStatus(c.Request.Context(), token(c), c.Param("id"), req.Status)
	respond(c, http.StatusOK, transform.TransformBackendProduct(p), err)
}

func (h *ContentHandler) ApproveProduct(c *gin.Context) {
	p, err := h.api.ApproveProduct(c.Request.Context(), token(c), c.Param("id"))
	respond(c, http.StatusOK, transform.TransformBackendProduct(p), err)
}

type productRejectRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

func (h *ContentHandler) RejectProduct(c *gin.Context) {
	var req productRejectRequest
	if !bindValid(c, &req) {
		return
	}
	p, err := h.api.RejectProduct(c.Request.Context(), token(c), c.Param("id"), strings.TrimSpace(req.Reason))
	respond(c, http.StatusOK, transform.TransformBackendProduct(p), err)
}

// Staff

func (h *ContentHandler) ListStaff(c *gin.Context) {
	f, ok := listFilters(c)
	if !ok {
		return
	}
	page, err := h.api.ListAdmins(c.Request.Context(), token(c), f)
	respond(c, http.StatusOK, page, err)
}

func (h *ContentHandler) GetStaff(c *gin.Context) {
	a, err := h.api.GetAdmin(c.Request.Context(), token(c), c.Param("id"))
	respond(c, http.StatusOK, a, err)
}

func (h *ContentHandler) CreateStaff(c *gin.Context) {
	var in dto.AdminAccountDTO
	if !bindValid(c, &in) {
		return
	}
	if in.Password == "" {
		abortWithError(c, &errs.ValidationError{Fields: map[string]string{"password": "is required"}})
		return
	}
	a, err := h.api.CreateAdmin(c.Request.Context(), token(c), in)
	respond(c, http.StatusCreated, a, err)
}

func (h *ContentHandler) UpdateStaff(c *gin.Context) {
	var in dto.AdminAccountDTO
	if !bindValid(c, &in) {
		return
	}
	a, err := h.api.UpdateAdmin(c.Request.Context(), token(c), c.Param("id"), in)
	respond(c, http.StatusOK, a, err)
}

func (h *ContentHandler) DeleteStaff(c *gin.Context) {
	if s := currentSession(c); s != nil && s.User != nil && s.User.ID == c.Param("id") {
		abortWithError(c, &errs.PreconditionError{Action: "delete", Reason: "you cannot delete your own account"})
		return
	}
	err := h.api.DeleteAdmin(c.Request.Context(), token(c), c.Param("id"))
	respond(c, http.StatusOK, gin.H{"deleted": err == nil}, err)
}

// Activity logs

// ActivityLogs serves ?date=YYYY-MM-DD for one day or ?from=&to= for a range.
// Without either it returns today's entries.
func (h *ContentHandler) ActivityLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(model.DefaultLimit)))
	from, to := c.Query("from"), c.Query("to")
	if from != "" || to != "" {
		start, err1 := time.Parse("2006-01-02", from)
		end, err2 := time.Parse("2006-01-02", to)
		if err1 != nil || err2 != nil {
			abortWithError(c, &errs.ValidationError{Fields: map[string]string{"from": "use YYYY-MM-DD", "to": "use YYYY-MM-DD"}})
			return
		}
		logs, err := h.api.ActivityLogsInRange(c.Request.Context(), token(c), start, end, page, limit)
		respond(c, http.StatusOK, logs, err)
		return
	}
	day := time.Now().UTC()
	if d := c.Query("date"); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			abortWithError(c, &errs.ValidationError{Fields: map[string]string{"date": "use YYYY-MM-DD"}})
			return
		}
		day = parsed
	}
	logs, err := h.api.ActivityLogsByDate(c.Request.Context(), token(c), day, page, limit)
	respond(c, http.StatusOK, logs, err)
}

func (h *ContentHandler) ActivityLogDates(c *gin.Context) {
	dates, err := h.api.ActivityLogDates(c.Request.Context(), token(c))
	respond(c, http.StatusOK, dates, err)
}

// Media

func (h *ContentHandler) UploadMedia(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, &errs.ValidationError{Fields: map[string]string{"file": "a file is required"}})
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, "unreadable file")
		return
	}
	defer f.Close()
	up, err := h.api.UploadMedia(c.Request.Context(), token(c), c.PostForm("folder"), fh.Filename, f)
	respond(c, http.StatusCreated, up, err)
}
