package apiclient

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/psds-microservice/admin-console/internal/dto"
	"github.com/psds-microservice/admin-console/internal/model"
)

const inquiryBase = "/admin/contact-inquiries"

func (c *Client) ListInquiries(ctx context.Context, token string, f model.Filters) (dto.InquiryPage, error) {
	var page dto.InquiryPage
	err := c.do(ctx, token, call{
		endpoint: "inquiry.list",
		method:   http.MethodGet,
		path:     inquiryBase,
		query:    f.Query(),
	}, &page)
	return page, err
}

func (c *Client) GetInquiry(ctx context.Context, token, id string) (dto.InquiryDTO, error) {
	var inq dto.InquiryDTO
	id, err := pathID(id)
	if err != nil {
		return inq, err
	}
	err = c.do(ctx, token, call{
		endpoint: "inquiry.get",
		method:   http.MethodGet,
		path:     inquiryBase + "/" + id,
		dataKey:  "inquiry",
	}, &inq)
	return inq, err
}

func (c *Client) UpdateInquiryStatus(ctx context.Context, token, id string, req dto.StatusUpdateRequest) (dto.InquiryDTO, error) {
	var inq dto.InquiryDTO
	id, err := pathID(id)
	if err != nil {
		return inq, err
	}
	err = c.do(ctx, token, call{
		endpoint: "inquiry.status",
		method:   http.MethodPatch,
		path:     inquiryBase + "/" + id + "/status",
		body:     req,
		dataKey:  "inquiry",
	}, &inq)
	return inq, err
}

// AssignInquiry assigns the inquiry to adminID, or unassigns it when adminID is nil.
func (c *Client) AssignInquiry(ctx context.Context, token, id string, adminID *string) (dto.InquiryDTO, error) {
	var inq dto.InquiryDTO
	id, err := pathID(id)
	if err != nil {
		return inq, err
	}
	err = c.do(ctx, token, call{
		endpoint: "inquiry.assign",
		method:   http.MethodPatch,
		path:     inquiryBase + "/" + id + "/assign",
		body:     dto.AssignRequest{AdminID: adminID},
		dataKey:  "inquiry",
	}, &inq)
	return inq, err
}

func (c *Client) InquiryStats(ctx context.Context, token string) (model.Stats, error) {
	var raw json.RawMessage
	if err := c.do(ctx, token, call{
		endpoint: "inquiry.stats",
		method:   http.MethodGet,
		path:     inquiryBase + "/stats",
	}, &raw); err != nil {
		return model.Stats{}, err
	}
	return DecodeStats(raw), nil
}
