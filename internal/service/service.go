package service

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"greenpledge/internal/dto"
	"greenpledge/internal/model"
	"greenpledge/internal/repo"
	"greenpledge/internal/report"
	"greenpledge/internal/storage"
	"greenpledge/internal/wall"
	"greenpledge/pkg/validator"
)

type Service interface {
	Submit(ctx *ginext.Context)
	Wall(ctx *ginext.Context)
	AdminStats(ctx *ginext.Context)
	ExportCSV(ctx *ginext.Context)
}

// Publisher hands thank-you jobs to the queue.
type Publisher interface {
	Publish(message []byte) error
}

// FormPolicy decides which optional form fields a deployment treats as
// required. Name and email are always required.
type FormPolicy struct {
	RequirePhone   bool
	RequireCountry bool
}

type service struct {
	repo   repo.Repository
	photos storage.PhotoStore
	rbt    Publisher
	policy FormPolicy
	log    *zerolog.Logger
}

func NewService(repository repo.Repository, photos storage.PhotoStore, rbt Publisher, policy FormPolicy, logger *zerolog.Logger) Service {
	return &service{
		repo:   repository,
		photos: photos,
		rbt:    rbt,
		policy: policy,
		log:    logger,
	}
}

func (s *service) Submit(ctx *ginext.Context) {
	var req dto.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		s.log.Error().Err(err).Msg("failed to parse submit request")
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		s.log.Error().Msgf("validation failed: %v", verr)
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	if s.policy.RequirePhone && req.Phone == "" {
		dto.FieldIncorrectError(ctx, "phone")
		return
	}
	if s.policy.RequireCountry && req.Country == "" {
		dto.FieldIncorrectError(ctx, "country")
		return
	}

	photoURL := req.PhotoURL
	if photoURL == "" && req.PhotoBase64 != "" {
		url, err := s.photos.SavePhoto(ctx.Request.Context(), req.PhotoBase64)
		if err != nil {
			// The pledge still counts without the selfie.
			s.log.Warn().Err(err).Msg("photo upload during submit failed")
		} else {
			photoURL = url
		}
	}

	pledge := &model.Pledge{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Company:    req.Company,
		Country:    req.Country,
		Pledge:     req.Pledge,
		Interested: req.Interested,
		LookingFor: req.LookingFor,
		PhotoURL:   photoURL,
	}

	id, created, err := s.repo.UpsertByEmail(ctx.Request.Context(), pledge)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to upsert pledge")
		dto.InternalServerError(ctx)
		return
	}

	// Thank-you email goes out once, on first creation only.
	emailSent := false
	if created && s.rbt != nil {
		msg := dto.ThankYouMessage{PledgeID: id, Name: req.Name, Email: req.Email}
		payload, err := json.Marshal(msg)
		if err == nil {
			err = s.rbt.Publish(payload)
		}
		if err != nil {
			s.log.Error().Err(err).Msg("failed to enqueue thank-you email")
		} else {
			emailSent = true
		}
	}

	s.log.Info().Int64("pledge_id", id).Bool("created", created).Msg("pledge processed")

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	ctx.JSON(status, dto.SubmitResponse{
		Message:   "Form processed",
		Created:   created,
		EmailSent: emailSent,
		PhotoURL:  photoURL,
	})
}

func (s *service) Wall(ctx *ginext.Context) {
	records, err := s.repo.GetPledged(ctx.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load wall records")
		dto.InternalServerError(ctx)
		return
	}

	cards := wall.Project(records)
	ctx.JSON(http.StatusOK, dto.WallResponse{
		Count:   len(cards),
		Pledges: cards,
	})
}

func (s *service) AdminStats(ctx *ginext.Context) {
	records, err := s.repo.GetAll(ctx.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load admin working set")
		dto.InternalServerError(ctx)
		return
	}
	if records == nil {
		records = []model.Pledge{}
	}

	ctx.JSON(http.StatusOK, dto.AdminStatsResponse{
		Count:   len(records),
		Pledges: records,
	})
}

func (s *service) ExportCSV(ctx *ginext.Context) {
	records, err := s.repo.GetAll(ctx.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load records for export")
		dto.InternalServerError(ctx)
		return
	}

	out := report.SerializeCSV(report.Headers, report.Rows(records))
	ctx.Header("Content-Disposition", `attachment; filename="pledges.csv"`)
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(out))
}
