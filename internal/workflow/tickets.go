package workflow

import (
	"context"

	"github.com/psds-microservice/admin-console/internal/dto"
	"github.com/psds-microservice/admin-console/internal/errs"
	"github.com/psds-microservice/admin-console/internal/model"
	"github.com/psds-microservice/admin-console/internal/session"
	"github.com/psds-microservice/admin-console/internal/transform"
)

// TicketAPI is the part of the marketplace client the ticket workflow needs.
type TicketAPI interface {
	ListInquiries(ctx context.Context, token string, f model.Filters) (dto.InquiryPage, error)
	GetInquiry(ctx context.Context, token, id string) (dto.InquiryDTO, error)
	UpdateInquiryStatus(ctx context.Context, token, id string, req dto.StatusUpdateRequest) (dto.InquiryDTO, error)
	AssignInquiry(ctx context.Context, token, id string, adminID *string) (dto.InquiryDTO, error)
	InquiryStats(ctx context.Context, token string) (model.Stats, error)
}

type TicketFeature struct {
	api TicketAPI
}

func NewTicketFeature(api TicketAPI) *TicketFeature {
	return &TicketFeature{api: api}
}

func (f *TicketFeature) Name() string                         { return "tickets" }
func (f *TicketFeature) Module() string                       { return session.ModuleTickets }
func (f *TicketFeature) ID(t model.ContactInquiry) string     { return t.ID }
func (f *TicketFeature) Status(t model.ContactInquiry) string { return string(t.Status) }

func (f *TicketFeature) List(ctx context.Context, token string, fl model.Filters) ([]model.ContactInquiry, model.Pagination, error) {
	page, err := f.api.ListInquiries(ctx, token, fl)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return transform.TransformBackendInquiries(page.Inquiries), transform.TransformPagination(page.Pagination, fl.Limit), nil
}

func (f *TicketFeature) Get(ctx context.Context, token, id string) (model.ContactInquiry, error) {
	inq, err := f.api.GetInquiry(ctx, token, id)
	if err != nil {
		return model.ContactInquiry{}, err
	}
	return transform.TransformBackendInquiry(inq), nil
}

func (f *TicketFeature) Stats(ctx context.Context, token string) (model.Stats, error) {
	return f.api.InquiryStats(ctx, token)
}

func (f *TicketFeature) Check(actor Actor, rec model.ContactInquiry, a Action) error {
	switch a.Kind {
	case ActionSetStatus:
		next := model.TicketStatus(a.Status)
		if !next.Valid() {
			return &errs.PreconditionError{Action: string(a.Kind), Status: string(rec.Status), Reason: "unknown ticket status " + a.Status}
		}
		if next == rec.Status {
			return &errs.PreconditionError{Action: string(a.Kind), Status: string(rec.Status), Reason: "ticket already has this status"}
		}
		return nil
	case ActionAssign:
		if actor == nil || actor.Role() != model.RoleSuperAdmin {
			return &errs.PreconditionError{Action: string(a.Kind), Reason: "only a " + model.RoleSuperAdmin + " can reassign tickets"}
		}
		return nil
	}
	return &errs.PreconditionError{Action: string(a.Kind), Reason: "not supported for tickets"}
}

func (f *TicketFeature) Apply(ctx context.Context, token string, rec model.ContactInquiry, a Action) (model.ContactInquiry, error) {
	var (
		inq dto.InquiryDTO
		err error
	)
	if a.Kind == ActionAssign {
		inq, err = f.api.AssignInquiry(ctx, token, rec.ID, a.AdminID)
	} else {
		inq, err = f.api.UpdateInquiryStatus(ctx, token, rec.ID, dto.StatusUpdateRequest{Status: a.Status, AdminNotes: a.Notes})
	}
	if err != nil {
		return model.ContactInquiry{}, err
	}
	return transform.TransformBackendInquiry(inq), nil
}

// Merge keeps an expanded assignee when the server answered with the same admin's bare id.
func (f *TicketFeature) Merge(prev, next model.ContactInquiry) model.ContactInquiry {
	if prev.ID == next.ID {
		next.AssignedAdmin = model.MergeAssignee(prev.AssignedAdmin, next.AssignedAdmin)
	}
	return next
}

func (f *TicketFeature) Patch(entry, updated model.ContactInquiry, a Action) model.ContactInquiry {
	entry.UpdatedAt = updated.UpdatedAt
	switch a.Kind {
	case ActionSetStatus:
		entry.Status = updated.Status
		entry.ResolvedAt = updated.ResolvedAt
	case ActionAssign:
		entry.AssignedAdmin = model.MergeAssignee(entry.AssignedAdmin, updated.AssignedAdmin)
		entry.AssignedAt = updated.AssignedAt
	}
	return entry
}

func (f *TicketFeature) SuccessMessage(a Action, updated model.ContactInquiry) string {
	if a.Kind == ActionAssign {
		if updated.AssignedAdmin.IsNone() {
			return "Ticket unassigned"
		}
		return "Ticket assigned to " + updated.AssignedAdmin.DisplayName()
	}
	return "Ticket status updated to " + string(updated.Status)
}
