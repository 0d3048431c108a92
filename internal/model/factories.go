package model

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"gitlab.com/timkado/api/daisi-sdr-service/pkg/utils"
)

func init() {
	gofakeit.Seed(time.Now().UnixNano())
}

// NewFakeLead generates a populated Lead owned by userID. Intended for tests
// and the seed tool.
func NewFakeLead(userID string) *Lead {
	return &Lead{
		ID:          gofakeit.UUID(),
		UserID:      userID,
		Name:        gofakeit.Name(),
		Company:     gofakeit.Company(),
		Role:        gofakeit.JobTitle(),
		Email:       gofakeit.Email(),
		Phone:       gofakeit.Phone(),
		Industry:    gofakeit.BuzzWord(),
		CompanySize: gofakeit.RandomString([]string{"1-10", "11-50", "51-200", "201-1000", "1000+"}),
		Website:     gofakeit.URL(),
		Notes:       gofakeit.Sentence(8),
		Status:      gofakeit.RandomString([]string{LeadStatusNew, LeadStatusContacted, LeadStatusNegotiation, LeadStatusHot, LeadStatusCold}),
		Score:       gofakeit.Number(0, 100),
		CreatedAt:   utils.Now(),
		UpdatedAt:   utils.Now(),
	}
}

// NewFakeTask generates a Task attached to the given lead.
func NewFakeTask(userID, leadID string) *Task {
	due := utils.Now().Add(time.Duration(gofakeit.Number(1, 14*24)) * time.Hour)
	return &Task{
		ID:          gofakeit.UUID(),
		UserID:      userID,
		LeadID:      leadID,
		Title:       gofakeit.Sentence(4),
		Description: gofakeit.Sentence(10),
		DueDate:     &due,
		Completed:   gofakeit.Bool(),
		CreatedAt:   utils.Now(),
		UpdatedAt:   utils.Now(),
	}
}

// NewFakeDeal generates a Deal attached to the given lead.
func NewFakeDeal(userID, leadID string) *Deal {
	return &Deal{
		ID:          gofakeit.UUID(),
		UserID:      userID,
		LeadID:      leadID,
		Title:       gofakeit.Company() + " expansion",
		Description: gofakeit.Sentence(10),
		Value:       gofakeit.Number(1000, 500000),
		Status:      "open",
		CreatedAt:   utils.Now(),
		UpdatedAt:   utils.Now(),
	}
}

// NewFakeKnowledgeDocument generates an active document in a random category.
func NewFakeKnowledgeDocument(userID string) *KnowledgeDocument {
	return &KnowledgeDocument{
		ID:     gofakeit.UUID(),
		UserID: userID,
		Title:  gofakeit.Sentence(3),
		Content: gofakeit.Paragraph(1, 3, 12, " "),
		Category: gofakeit.RandomString([]string{
			KnowledgeCategoryQualification,
			KnowledgeCategoryOutreach,
			KnowledgeCategoryObjection,
			KnowledgeCategoryIndustry,
			KnowledgeCategoryProduct,
		}),
		IsActive:  true,
		CreatedAt: utils.Now(),
		UpdatedAt: utils.Now(),
	}
}
