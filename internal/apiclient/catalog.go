package apiclient

import (
	"context"
	"net/http"

	"github.com/psds-microservice/admin-console/internal/dto"
	"github.com/psds-microservice/admin-console/internal/model"
)

const (
	productBase  = "/admin/products"
	blogBase     = "/admin/blogs"
	categoryBase = "/admin/blog-categories"
)

func (c *Client) ListProducts(ctx context.Context, token string, f model.Filters) (dto.ProductPage, error) {
	var page dto.ProductPage
	err := c.do(ctx, token, call{endpoint: "product.list", method: http.MethodGet, path: productBase, query: f.Query()}, &page)
	return page, err
}

func (c *Client) GetProduct(ctx context.Context, token, id string) (dto.ProductDTO, error) {
	var p dto.ProductDTO
	id, err := pathID(id)
	if err != nil {
		return p, err
	}
	err = c.do(ctx, token, call{endpoint: "product.get", method: http.MethodGet, path: productBase + "/" + id, dataKey: "product"}, &p)
	return p, err
}

func (c *Client) UpdateProductStatus(ctx context.Context, token, id string, status model.ProductStatus) (dto.ProductDTO, error) {
	return c.productMutation(ctx, token, id, "product.status", "/status", dto.ProductReviewRequest{Status: string(status)})
}

func (c *Client) ApproveProduct(ctx context.Context, token, id string) (dto.ProductDTO, error) {
	return c.productMutation(ctx, token, id, "product.approve", "/approve", dto.ProductReviewRequest{})
}

func (c *Client) RejectProduct(ctx context.Context, token, id, reason string) (dto.ProductDTO, error) {
	return c.productMutation(ctx, token, id, "product.reject", "/reject", dto.ProductReviewRequest{Reason: reason})
}

func (c *Client) productMutation(ctx context.Context, token, id, endpoint, suffix string, body dto.ProductReviewRequest) (dto.ProductDTO, error) {
	var p dto.ProductDTO
	id, err := pathID(id)
	if err != nil {
		return p, err
	}
	err = c.do(ctx, token, call{
		endpoint: endpoint,
		method:   http.MethodPatch,
		path:     productBase + "/" + id + suffix,
		body:     body,
		dataKey:  "product",
	}, &p)
	return p, err
}

func (c *Client) ListBlogs(ctx context.Context, token string, f model.Filters) (dto.BlogPage, error) {
	var page dto.BlogPage
	err := c.do(ctx, token, call{endpoint: "blog.list", method: http.MethodGet, path: blogBase, query: f.Query()}, &page)
	return page, err
}

func (c *Client) GetBlog(ctx context.Context, token, id string) (dto.BlogDTO, error) {
	var b dto.BlogDTO
	id, err := pathID(id)
	if err != nil {
		return b, err
	}
	err = c.do(ctx, token, call{endpoint: "blog.get", method: http.MethodGet, path: blogBase + "/" + id, dataKey: "blog"}, &b)
	return b, err
}

func (c *Client) CreateBlog(ctx context.Context, token string, in dto.BlogDTO) (dto.BlogDTO, error) {
	var b dto.BlogDTO
	in.ID = ""
	err := c.do(ctx, token, call{endpoint: "blog.create", method: http.MethodPost, path: blogBase, body: in, dataKey: "blog"}, &b)
	return b, err
}

func (c *Client) UpdateBlog(ctx context.Context, token, id string, in dto.BlogDTO) (dto.BlogDTO, error) {
	var b dto.BlogDTO
	id, err := pathID(id)
	if err != nil {
		return b, err
	}
	in.ID = ""
	err = c.do(ctx, token, call{endpoint: "blog.update", method: http.MethodPut, path: blogBase + "/" + id, body: in, dataKey: "blog"}, &b)
	return b, err
}

func (c *Client) DeleteBlog(ctx context.Context, token, id string) error {
	id, err := pathID(id)
	if err != nil {
		return err
	}
	return c.do(ctx, token, call{endpoint: "blog.delete", method: http.MethodDelete, path: blogBase + "/" + id}, nil)
}

func (c *Client) ListBlogCategories(ctx context.Context, token string) ([]dto.BlogCategoryDTO, error) {
	var cats []dto.BlogCategoryDTO
	err := c.do(ctx, token, call{endpoint: "category.list", method: http.MethodGet, path: categoryBase, dataKey: "categories"}, &cats)
	return cats, err
}

func (c *Client) CreateBlogCategory(ctx context.Context, token string, in dto.BlogCategoryDTO) (dto.BlogCategoryDTO, error) {
	var cat dto.BlogCategoryDTO
	in.ID = ""
	err := c.do(ctx, token, call{endpoint: "category.create", method: http.MethodPost, path: categoryBase, body: in, dataKey: "category"}, &cat)
	return cat, err
}

func (c *Client) UpdateBlogCategory(ctx context.Context, token, id string, in dto.BlogCategoryDTO) (dto.BlogCategoryDTO, error) {
	var cat dto.BlogCategoryDTO
	id, err := pathID(id)
	if err != nil {
		return cat, err
	}
	in.ID = ""
	err = c.do(ctx, token, call{endpoint: "category.update", method: http.MethodPut, path: categoryBase + "/" + id, body: in, dataKey: "category"}, &cat)
	return cat, err
}

func (c *Client) DeleteBlogCategory(ctx context.Context, token, id string) error {
	id, err := pathID(id)
	if err != nil {
		return err
	}
	return c.do(ctx, token, call{endpoint: "category.delete", method: http.MethodDelete, path: categoryBase + "/" + id}, nil)
}
