package services

import (
	"context"

	"github.com/Piyush-gour/legal-sathi/apperror"
	"github.com/Piyush-gour/legal-sathi/models"
	"github.com/Piyush-gour/legal-sathi/repository"
)

const latestLimit = 5

type LawyerDashboard struct {
	Earnings      int64                 `json:"earnings"`
	Consultations int                   `json:"consultations"`
	Pending       int                   `json:"pending"`
	Accepted      int                   `json:"accepted"`
	Completed     int                   `json:"completed"`
	Rejected      int                   `json:"rejected"`
	Cancelled     int                   `json:"cancelled"`
	Clients       int                   `json:"clients"`
	Latest        []models.Consultation `json:"latestConsultations"`
}

type AdminDashboard struct {
	Lawyers        int64                 `json:"lawyers"`
	PendingLawyers int64                 `json:"pendingLawyers"`
	Users          int64                 `json:"users"`
	Consultations  int64                 `json:"consultations"`
	Latest         []models.Consultation `json:"latestConsultations"`
}

type DashboardService struct {
	store repository.Store
}

func NewDashboardService(store repository.Store) *DashboardService {
	return &DashboardService{store: store}
}

func (s *DashboardService) Lawyer(ctx context.Context, lawyerID string) (*LawyerDashboard, error) {
	earnings, err := s.store.LawyerEarnings(ctx, lawyerID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to compute earnings")
	}
	all, err := s.store.ListConsultations(ctx, repository.ConsultationFilter{LawyerID: lawyerID})
	if err != nil {
		return nil, apperror.Internal(err, "failed to list consultations")
	}

	d := &LawyerDashboard{Earnings: earnings, Consultations: len(all)}
	clients := make(map[string]struct{})
	for _, c := range all {
		clients[c.UserID] = struct{}{}
		if c.Cancelled {
			d.Cancelled++
			continue
		}
		switch c.Status {
		case models.StatusPending:
			d.Pending++
		case models.StatusAccepted:
			d.Accepted++
		case models.StatusCompleted:
			d.Completed++
		case models.StatusRejected:
			d.Rejected++
		}
	}
	d.Clients = len(clients)
	d.Latest = all
	if len(d.Latest) > latestLimit {
		d.Latest = d.Latest[:latestLimit]
	}
	if d.Latest == nil {
		d.Latest = []models.Consultation{}
	}
	return d, nil
}

func (s *DashboardService) Admin(ctx context.Context) (*AdminDashboard, error) {
	approved, pending := true, false
	d := &AdminDashboard{}
	var err error

	if d.Lawyers, err = s.store.CountLawyers(ctx, repository.LawyerFilter{Approved: &approved}); err != nil {
		return nil, apperror.Internal(err, "failed to count lawyers")
	}
	if d.PendingLawyers, err = s.store.CountLawyers(ctx, repository.LawyerFilter{Approved: &pending}); err != nil {
		return nil, apperror.Internal(err, "failed to count pending lawyers")
	}
	if d.Users, err = s.store.CountUsers(ctx); err != nil {
		return nil, apperror.Internal(err, "failed to count users")
	}
	if d.Consultations, err = s.store.CountConsultations(ctx, repository.ConsultationFilter{}); err != nil {
		return nil, apperror.Internal(err, "failed to count consultations")
	}
	if d.Latest, err = s.store.ListConsultations(ctx, repository.ConsultationFilter{Limit: latestLimit}); err != nil {
		return nil, apperror.Internal(err, "failed to list consultations")
	}
	if d.Latest == nil {
		d.Latest = []models.Consultation{}
	}
	return d, nil
}
