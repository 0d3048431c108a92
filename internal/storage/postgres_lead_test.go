package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/apperrors"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/model"
)

func TestPostgresRepo_GetLead(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := contextWithUser()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "company", "status", "score", "created_at", "updated_at"}).
		AddRow("lead-1", testUserID, "Ada Lovelace", "Analytical Engines", "new", 0, now, now)

	mock.ExpectQuery(`SELECT * FROM "leads" WHERE id = $1 AND user_id = $2 ORDER BY "leads"."id" LIMIT $3`).
		WithArgs("lead-1", testUserID, 1).
		WillReturnRows(rows)

	lead, err := repo.GetLead(ctx, "lead-1")
	assert.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", lead.Name)
	assert.Equal(t, 0, lead.Score)
	assert.Equal(t, "new", lead.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_GetLead_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := contextWithUser()

	mock.ExpectQuery(`SELECT * FROM "leads" WHERE id = $1 AND user_id = $2 ORDER BY "leads"."id" LIMIT $3`).
		WithArgs("missing", testUserID, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	lead, err := repo.GetLead(ctx, "missing")
	assert.Nil(t, lead)
	assert.True(t, apperrors.IsNotFoundError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_GetLead_NoUserInContext(t *testing.T) {
	repo, _ := newTestRepo(t)

	lead, err := repo.GetLead(context.Background(), "lead-1")
	assert.Nil(t, lead)
	assert.True(t, apperrors.IsUnauthorizedError(err))
}

func TestPostgresRepo_GetLeads_Empty(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := contextWithUser()

	mock.ExpectQuery(`SELECT * FROM "leads" WHERE user_id = $1 ORDER BY created_at DESC`).
		WithArgs(testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	leads, err := repo.GetLeads(ctx)
	assert.NoError(t, err)
	assert.NotNil(t, leads)
	assert.Empty(t, leads)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_CreateLead(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := contextWithUser()

	lead := model.Lead{
		ID:      "lead-create-1",
		Name:    "Grace Hopper",
		Company: "COBOL Inc",
		Status:  "contacted",
		Score:   42,
	}

	insertPattern := `INSERT INTO "leads" ("id","user_id","name","company","role","email","phone","linkedin","industry","company_size","website","notes","status","score","sdr_analysis","last_action","created_at","updated_at") VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`
	mock.ExpectExec(insertPattern).
		WithArgs(
			lead.ID, testUserID, lead.Name, lead.Company, "", "", "", "", "", "",
			"", "", lead.Status, lead.Score, nil, "", AnyTime{}, AnyTime{},
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CreateLead(ctx, &lead)
	assert.NoError(t, err)
	assert.Equal(t, testUserID, lead.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_UpdateLead(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := contextWithUser()

	mock.ExpectExec(`UPDATE "leads" SET "notes"=$1,"updated_at"=$2 WHERE id = $3 AND user_id = $4`).
		WithArgs("called them", AnyTime{}, "lead-1", testUserID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Now()
	reload := sqlmock.NewRows([]string{"id", "user_id", "name", "company", "notes", "created_at", "updated_at"}).
		AddRow("lead-1", testUserID, "Ada Lovelace", "Analytical Engines", "called them", now.Add(-time.Hour), now)
	mock.ExpectQuery(`SELECT * FROM "leads" WHERE id = $1 AND user_id = $2 ORDER BY "leads"."id" LIMIT $3`).
		WithArgs("lead-1", testUserID, 1).
		WillReturnRows(reload)

	lead, err := repo.UpdateLead(ctx, "lead-1", map[string]interface{}{"notes": "called them"})
	assert.NoError(t, err)
	assert.Equal(t, "called them", lead.Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_UpdateLead_ForeignRowLooksMissing(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := contextWithUser()

	mock.ExpectExec(`UPDATE "leads" SET "notes"=$1,"updated_at"=$2 WHERE id = $3 AND user_id = $4`).
		WithArgs("sneaky", AnyTime{}, "someone-elses-lead", testUserID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	lead, err := repo.UpdateLead(ctx, "someone-elses-lead", map[string]interface{}{"notes": "sneaky"})
	assert.Nil(t, lead)
	assert.True(t, apperrors.IsNotFoundError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_DeleteLead(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := contextWithUser()

	mock.ExpectExec(`DELETE FROM "leads" WHERE id = $1 AND user_id = $2`).
		WithArgs("lead-1", testUserID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.DeleteLead(ctx, "lead-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_DeleteLead_AlreadyGone(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := contextWithUser()

	mock.ExpectExec(`DELETE FROM "leads" WHERE id = $1 AND user_id = $2`).
		WithArgs("lead-1", testUserID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteLead(ctx, "lead-1")
	assert.True(t, apperrors.IsNotFoundError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
