package service

import (
	"context"

	"github.com/kindnest/kindnest-api/internal/model"
	"github.com/kindnest/kindnest-api/internal/repository"
	"github.com/kindnest/kindnest-api/pkg/apperror"
	"github.com/kindnest/kindnest-api/pkg/database"
	"github.com/kindnest/kindnest-api/pkg/validator"
)

type ReportService interface {
	Create(ctx context.Context, reporter *model.User, reportType string, userID uint, postID *uint, reason string) (*model.Report, error)
	Update(ctx context.Context, id uint, dismissed, closed *bool) (*model.Report, error)
	OpenPostReports(ctx context.Context, page int) (*database.Page[model.Report], error)
	OpenUserReports(ctx context.Context, page int) (*database.Page[model.Report], error)
}

type reportService struct {
	repo     repository.ReportRepository
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

func NewReportService(repo repository.ReportRepository, postRepo repository.PostRepository, userRepo repository.UserRepository) ReportService {
	return &reportService{
		repo:     repo,
		postRepo: postRepo,
		userRepo: userRepo,
	}
}

func (s *reportService) Create(ctx context.Context, reporter *model.User, reportType string, userID uint, postID *uint, reason string) (*model.Report, error) {
	if err := validator.CheckLength("report reason", reason, validator.MaxReportReasonLength); err != nil {
		return nil, err
	}

	switch reportType {
	case model.ReportTypePost:
		if postID == nil {
			return nil, apperror.BadRequest("a post report must name a post")
		}
		post, err := s.postRepo.FindByID(ctx, *postID)
		if err != nil {
			return nil, err
		}
		// The reported user is always the post's author.
		userID = post.UserID
	case model.ReportTypeUser:
		if postID != nil {
			return nil, apperror.BadRequest("a user report cannot name a post")
		}
		if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
			return nil, err
		}
	default:
		return nil, apperror.BadRequest("report type must be Post or User")
	}

	report := &model.Report{
		Type:       reportType,
		UserID:     userID,
		PostID:     postID,
		ReporterID: reporter.ID,
		Reason:     reason,
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reportService) Update(ctx context.Context, id uint, dismissed, closed *bool) (*model.Report, error) {
	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dismissed != nil {
		report.Dismissed = *dismissed
	}
	if closed != nil {
		report.Closed = *closed
	}

	if err := s.repo.Update(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reportService) OpenPostReports(ctx context.Context, page int) (*database.Page[model.Report], error) {
	return s.repo.FindOpen(ctx, model.ReportTypePost, page, database.DefaultPerPage)
}

func (s *reportService) OpenUserReports(ctx context.Context, page int) (*database.Page[model.Report], error) {
	return s.repo.FindOpen(ctx, model.ReportTypeUser, page, database.DefaultPerPage)
}
