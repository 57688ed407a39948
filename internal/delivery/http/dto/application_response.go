package dto

import (
	"time"

	"github.com/google/uuid"

	"internhub/internal/domain/application"
	"internhub/internal/repository"
)

type ApplicationResponse struct {
	ID              uuid.UUID          `json:"id"`
	InternshipID    uuid.UUID          `json:"internship_id"`
	InternshipTitle string             `json:"internship_title,omitempty"`
	Company         string             `json:"company,omitempty"`
	Status          application.Status `json:"status"`
	Note            string             `json:"note,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

type ApplicantResponse struct {
	ID        uuid.UUID          `json:"id"`
	UserID    uuid.UUID          `json:"user_id"`
	Email     string             `json:"email"`
	FullName  *string            `json:"full_name"`
	Skills    []string           `json:"skills"`
	Status    application.Status `json:"status"`
	Note      string             `json:"note,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

func NewApplicationResponse(a application.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:           a.ID,
		InternshipID: a.InternshipID,
		Status:       a.Status,
		Note:         a.Note,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func NewApplicationList(views []repository.ApplicationView) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(views))
	for _, v := range views {
		r := NewApplicationResponse(v.Application)
		r.InternshipTitle = v.InternshipTitle
		r.Company = v.Company
		out = append(out, r)
	}
	return out
}

func NewApplicantList(views []repository.ApplicantView) []ApplicantResponse {
	out := make([]ApplicantResponse, 0, len(views))
	for _, v := range views {
		out = append(out, ApplicantResponse{
			ID:        v.ID,
			UserID:    v.UserID,
			Email:     v.Email,
			FullName:  v.FullName,
			Skills:    nonNil(v.Skills),
			Status:    v.Status,
			Note:      v.Note,
			CreatedAt: v.CreatedAt,
		})
	}
	return out
}
