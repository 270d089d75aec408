package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"app/internal/model"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

func TestProfileRepo_Create_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewProfileRepo(db)

	grade := 3
	p := &model.Principal{
		ID:           "u-1",
		Name:         "Sara",
		Email:        "sara@example.com",
		PasswordHash: []byte("hash"),
		Role:         model.RoleStudent,
		Grade:        &grade,
		Plan:         model.PlanFree,
		IsActive:     true,
	}

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO profiles`).
		WithArgs(p.ID, p.Name, p.Email, p.PasswordHash, p.Role, p.Grade, p.Plan, p.IsActive).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, r.Create(context.Background(), p))
	require.Equal(t, now, p.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepo_Create_DuplicateEmail(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewProfileRepo(db)

	p := &model.Principal{ID: "u-1", Email: "dup@example.com", Role: model.RoleStudent, Plan: model.PlanFree}

	mock.ExpectQuery(`INSERT INTO profiles`).
		WithArgs(p.ID, p.Name, p.Email, p.PasswordHash, p.Role, p.Grade, p.Plan, p.IsActive).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := r.Create(context.Background(), p)
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestProfileRepo_GetByEmail_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewProfileRepo(db)

	mock.ExpectQuery(`SELECT .+ FROM profiles WHERE email = \$1`).
		WithArgs("ghost@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := r.GetByEmail(context.Background(), "ghost@example.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestProfileRepo_SetActive_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewProfileRepo(db)

	mock.ExpectExec(`UPDATE profiles SET is_active`).
		WithArgs(false, "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := r.SetActive(context.Background(), "missing", false)
	require.ErrorIs(t, err, ErrNotFound)
}

func contentRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "title", "section", "grade", "download_url", "status",
		"admin_feedback", "created_by", "created_at", "updated_at",
	})
}

func TestContentRepo_BrowseApproved_PassesLimit(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewContentRepo(db)

	now := time.Now()
	rows := contentRows().
		AddRow("c-1", "Fractions", model.SectionLessons, 4, "https://cdn/x.pdf", model.StatusApproved, "", "a-1", now, now).
		AddRow("c-2", "Decimals", model.SectionLessons, 4, "https://cdn/y.pdf", model.StatusApproved, "", "a-1", now, now)

	mock.ExpectQuery(`FROM content_items\s+WHERE status = 'approved'`).
		WithArgs(4, "lessons", 10).
		WillReturnRows(rows)

	items, err := r.BrowseApproved(context.Background(), 4, model.SectionLessons, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "Fractions", items[0].Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepo_BrowseApproved_NoLimitAndNoSection(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewContentRepo(db)

	mock.ExpectQuery(`FROM content_items\s+WHERE status = 'approved'`).
		WithArgs(2, "", 0).
		WillReturnRows(contentRows())

	items, err := r.BrowseApproved(context.Background(), 2, "", -5)
	require.NoError(t, err)
	require.Empty(t, items)
	require.NotNil(t, items)
}

func TestContentRepo_BrowseApproved_AllGrades(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewContentRepo(db)

	now := time.Now()
	rows := contentRows().
		AddRow("c-1", "Fractions", model.SectionLessons, 4, "https://cdn/x.pdf", model.StatusApproved, "", "a-1", now, now).
		AddRow("c-2", "Reading", model.SectionLessons, 1, "https://cdn/y.pdf", model.StatusApproved, "", "a-1", now, now)

	mock.ExpectQuery(`FROM content_items\s+WHERE status = 'approved'`).
		WithArgs(0, "lessons", 0).
		WillReturnRows(rows)

	items, err := r.BrowseApproved(context.Background(), 0, model.SectionLessons, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepo_SetStatus_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewContentRepo(db)

	mock.ExpectExec(`UPDATE content_items\s+SET status`).
		WithArgs(model.StatusRefine, "blurry scan", "c-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, r.SetStatus(context.Background(), "c-1", model.StatusRefine, "blurry scan"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_Approve_CommitsAllThreeWrites(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPaymentRepo(db)

	expiry := time.Now().Add(30 * 24 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE payment_submissions\s+SET status = 'approved'`).
		WithArgs("pay-1", "u-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE profiles SET plan = 'paid'`).
		WithArgs("u-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`INSERT INTO subscriptions`).
		WithArgs("u-1", expiry).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, r.Approve(context.Background(), "pay-1", "u-1", expiry))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_Approve_RollsBackOnFailure(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPaymentRepo(db)

	expiry := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE payment_submissions\s+SET status = 'approved'`).
		WithArgs("pay-1", "u-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE profiles SET plan = 'paid'`).
		WithArgs("u-1").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := r.Approve(context.Background(), "pay-1", "u-1", expiry)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_Approve_MissingSubmission(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPaymentRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE payment_submissions\s+SET status = 'approved'`).
		WithArgs("ghost", "u-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := r.Approve(context.Background(), "ghost", "u-1", time.Now())
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_Resubmit_ScopedToOwner(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPaymentRepo(db)

	p := &model.PaymentSubmission{
		ID:         "pay-1",
		UserID:     "intruder",
		PayerName:  "X",
		PayerPhone: "000",
		Amount:     50,
		Method:     model.MethodSTCPay,
	}

	mock.ExpectExec(`UPDATE payment_submissions\s+SET payer_name`).
		WithArgs(p.PayerName, p.PayerPhone, p.Amount, p.Method,
			p.TransactionID, p.ReceiptURL, p.Notes, p.ID, p.UserID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := r.Resubmit(context.Background(), p)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSubscriptionRepo_Get_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSubscriptionRepo(db)

	mock.ExpectQuery(`FROM subscriptions`).
		WithArgs("u-1").
		WillReturnError(pgx.ErrNoRows)

	_, err := r.Get(context.Background(), "u-1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSubscriptionRepo_Upsert_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewSubscriptionRepo(db)

	expiry := time.Now().Add(720 * time.Hour)
	mock.ExpectExec(`INSERT INTO subscriptions`).
		WithArgs("u-1", model.PlanPaid, true, &expiry).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, r.Upsert(context.Background(), "u-1", model.PlanPaid, true, &expiry))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepo_CreateAndList(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewContactRepo(db)

	m := &model.ContactMessage{
		ID: "m-1", Name: "Parent", Email: "p@example.com",
		Subject: "question", Message: "How do I subscribe?",
	}
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO contact_messages`).
		WithArgs(m.ID, m.Name, m.Email, m.Phone, m.Subject, m.Message).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	require.NoError(t, r.Create(context.Background(), m))
	require.Equal(t, now, m.CreatedAt)

	mock.ExpectQuery(`FROM contact_messages`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "phone", "subject", "message", "created_at"}).
			AddRow("m-1", "Parent", "p@example.com", "", "question", "How do I subscribe?", now))

	list, err := r.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "question", list[0].Subject)
}
