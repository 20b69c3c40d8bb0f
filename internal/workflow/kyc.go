package workflow

import (
	"context"

	"github.com/psds-microservice/admin-console/internal/dto"
	"github.com/psds-microservice/admin-console/internal/errs"
	"github.com/psds-microservice/admin-console/internal/model"
	"github.com/psds-microservice/admin-console/internal/session"
	"github.com/psds-microservice/admin-console/internal/transform"
)

// KYCAPI is the part of the marketplace client the KYC workflow needs.
type KYCAPI interface {
	ListKYCApplications(ctx context.Context, token string, f model.Filters) (dto.KYCPage, error)
	GetKYCApplication(ctx context.Context, token, id string) (dto.ApplicationDTO, error)
	ReviewKYCApplication(ctx context.Context, token, id string, req dto.ReviewRequest) (dto.ApplicationDTO, error)
	BulkKYCAction(ctx context.Context, token string, req dto.BulkActionRequest) (dto.BulkActionResult, error)
	KYCStats(ctx context.Context, token string) (model.Stats, error)
}

type KYCFeature struct {
	api KYCAPI
}

func NewKYCFeature(api KYCAPI) *KYCFeature {
	return &KYCFeature{api: api}
}

func (f *KYCFeature) Name() string                         { return "kyc" }
func (f *KYCFeature) Module() string                       { return session.ModuleKYC }
func (f *KYCFeature) ID(a model.KYCApplication) string     { return a.ID }
func (f *KYCFeature) Status(a model.KYCApplication) string { return string(a.Status) }

func (f *KYCFeature) List(ctx context.Context, token string, fl model.Filters) ([]model.KYCApplication, model.Pagination, error) {
	page, err := f.api.ListKYCApplications(ctx, token, fl)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return transform.TransformBackendApplications(page.Applications), transform.TransformPagination(page.Pagination, fl.Limit), nil
}

func (f *KYCFeature) Get(ctx context.Context, token, id string) (model.KYCApplication, error) {
	app, err := f.api.GetKYCApplication(ctx, token, id)
	if err != nil {
		return model.KYCApplication{}, err
	}
	return transform.TransformBackendApplication(app), nil
}

func (f *KYCFeature) Stats(ctx context.Context, token string) (model.Stats, error) {
	return f.api.KYCStats(ctx, token)
}

func (f *KYCFeature) Check(_ Actor, rec model.KYCApplication, a Action) error {
	switch a.Kind {
	case ActionApprove, ActionReject:
		if !rec.Status.Reviewable() {
			return &errs.PreconditionError{Action: string(a.Kind), Status: string(rec.Status), Reason: "only submitted or under-review applications can be reviewed"}
		}
		return nil
	case ActionSetStatus:
		if model.KYCStatus(a.Status) != model.KYCStatusUnderReview {
			return &errs.PreconditionError{Action: string(a.Kind), Status: string(rec.Status), Reason: "applications can only be moved to under_review manually"}
		}
		if rec.Status != model.KYCStatusSubmitted {
			return &errs.PreconditionError{Action: string(a.Kind), Status: string(rec.Status), Reason: "only submitted applications can be taken under review"}
		}
		return nil
	}
	return &errs.PreconditionError{Action: string(a.Kind), Reason: "not supported for KYC applications"}
}

func reviewStatus(a Action) model.KYCStatus {
	switch a.Kind {
	case ActionApprove:
		return model.KYCStatusApproved
	case ActionReject:
		return model.KYCStatusRejected
	}
	return model.KYCStatus(a.Status)
}

func (f *KYCFeature) Apply(ctx context.Context, token string, rec model.KYCApplication, a Action) (model.KYCApplication, error) {
	req := dto.ReviewRequest{Status: string(reviewStatus(a)), ReviewNotes: a.Notes}
	if a.Kind == ActionReject {
		req.RejectionReason = a.Reason
	}
	app, err := f.api.ReviewKYCApplication(ctx, token, rec.ID, req)
	if err != nil {
		return model.KYCApplication{}, err
	}
	return transform.TransformBackendApplication(app), nil
}

func (f *KYCFeature) Merge(_, next model.KYCApplication) model.KYCApplication {
	return next
}

func (f *KYCFeature) Patch(entry, updated model.KYCApplication, a Action) model.KYCApplication {
	entry.Status = updated.Status
	entry.UpdatedAt = updated.UpdatedAt
	switch a.Kind {
	case ActionApprove:
		entry.ApprovedAt = updated.ApprovedAt
		entry.ReviewedAt = updated.ReviewedAt
		entry.ReviewedBy = updated.ReviewedBy
	case ActionReject:
		entry.RejectionReason = updated.RejectionReason
		entry.RejectedAt = updated.RejectedAt
		entry.ReviewedAt = updated.ReviewedAt
		entry.ReviewedBy = updated.ReviewedBy
	}
	return entry
}

func (f *KYCFeature) SuccessMessage(a Action, _ model.KYCApplication) string {
	switch a.Kind {
	case ActionApprove:
		return "KYC application approved"
	case ActionReject:
		return "KYC application rejected"
	}
	return "KYC application marked as under review"
}

func (f *KYCFeature) Bulk(ctx context.Context, token string, ids []string, a Action) ([]model.KYCApplication, int, error) {
	res, err := f.api.BulkKYCAction(ctx, token, dto.BulkActionRequest{
		ApplicationIDs: ids,
		Action:         string(a.Kind),
		Reason:         a.Reason,
	})
	if err != nil {
		return nil, 0, err
	}
	n := res.ModifiedCount
	if n == 0 {
		n = len(res.Applications)
	}
	return transform.TransformBackendApplications(res.Applications), n, nil
}
