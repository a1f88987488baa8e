// Package postgres implements repository.Store on top of gorm.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/Piyush-gour/legal-sathi/models"
	"github.com/Piyush-gour/legal-sathi/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db  *gorm.DB
	now func() time.Time
}

var _ repository.Store = (*Store)(nil)

// New expects a *gorm.DB opened with TranslateError enabled.
func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrDuplicate
	}
	return err
}

// Users

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "LOWER(email) = LOWER(?)", email).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	u.UpdatedAt = s.now()
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", u.ID).
		Select("name", "image", "phone", "address", "gender", "dob", "updated_at").
		Updates(u)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store) SetUserBlocked(ctx context.Context, id string, blocked bool) error {
	return s.updateColumns(ctx, &models.User{}, id, map[string]interface{}{"blocked": blocked})
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

// Lawyers

func (s *Store) CreateLawyer(ctx context.Context, l *models.Lawyer) error {
	if l.SlotsBooked == nil {
		l.SlotsBooked = models.SlotsBooked{}
	}
	return translate(s.db.WithContext(ctx).Create(l).Error)
}

func (s *Store) GetLawyerByID(ctx context.Context, id string) (*models.Lawyer, error) {
	var l models.Lawyer
	if err := s.db.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (s *Store) GetLawyerByEmail(ctx context.Context, email string) (*models.Lawyer, error) {
	var l models.Lawyer
	if err := s.db.WithContext(ctx).First(&l, "LOWER(email) = LOWER(?)", email).Error; err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (s *Store) UpdateLawyerProfile(ctx context.Context, l *models.Lawyer) error {
	l.UpdatedAt = s.now()
	res := s.db.WithContext(ctx).Model(&models.Lawyer{}).Where("id = ?", l.ID).
		Select("name", "image", "speciality", "qualification", "experience", "about", "fees", "address", "updated_at").
		Updates(l)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store) lawyerQuery(ctx context.Context, f repository.LawyerFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Lawyer{})
	if f.Approved != nil {
		q = q.Where("approved = ?", *f.Approved)
	}
	if f.Available != nil {
		q = q.Where("available = ?", *f.Available)
	}
	return q
}

func (s *Store) ListLawyers(ctx context.Context, f repository.LawyerFilter) ([]models.Lawyer, error) {
	var lawyers []models.Lawyer
	err := s.lawyerQuery(ctx, f).Order("created_at DESC, id").Find(&lawyers).Error
	return lawyers, err
}

func (s *Store) SetLawyerApproved(ctx context.Context, id string, approved bool) error {
	return s.updateColumns(ctx, &models.Lawyer{}, id, map[string]interface{}{"approved": approved})
}

func (s *Store) SetLawyerAvailable(ctx context.Context, id string, available bool) error {
	return s.updateColumns(ctx, &models.Lawyer{}, id, map[string]interface{}{"available": available})
}

func (s *Store) DeletePendingLawyer(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ? AND approved = ?", id, false).Delete(&models.Lawyer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store) CountLawyers(ctx context.Context, f repository.LawyerFilter) (int64, error) {
	var n int64
	err := s.lawyerQuery(ctx, f).Count(&n).Error
	return n, err
}

func (s *Store) updateColumns(ctx context.Context, model interface{}, id string, cols map[string]interface{}) error {
	cols["updated_at"] = s.now()
	res := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Ledger

// The jsonb "?" operator clashes with gorm placeholders, so membership is
// tested with @> against a one-element array instead.
const bookSlotSQL = `UPDATE lawyers
SET slots_booked = jsonb_set(
		COALESCE(slots_booked, '{}'::jsonb),
		ARRAY[?]::text[],
		COALESCE(slots_booked -> ?, '[]'::jsonb) || jsonb_build_array(?::text),
		true),
	updated_at = ?
WHERE id = ?
	AND NOT (COALESCE(slots_booked -> ?, '[]'::jsonb) @> jsonb_build_array(?::text))`

const releaseSlotSQL = `UPDATE lawyers
SET slots_booked = jsonb_set(slots_booked, ARRAY[?]::text[], (slots_booked -> ?) - ?::text),
	updated_at = ?
WHERE id = ?
	AND slots_booked -> ? IS NOT NULL`

func (s *Store) BookSlot(ctx context.Context, lawyerID, dateKey, timeLabel string) error {
	res := s.db.WithContext(ctx).Exec(bookSlotSQL,
		dateKey, dateKey, timeLabel, s.now(), lawyerID, dateKey, timeLabel)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}
	if err := s.lawyerExists(ctx, lawyerID); err != nil {
		return err
	}
	return repository.ErrSlotTaken
}

func (s *Store) ReleaseSlot(ctx context.Context, lawyerID, dateKey, timeLabel string) error {
	res := s.db.WithContext(ctx).Exec(releaseSlotSQL,
		dateKey, dateKey, timeLabel, s.now(), lawyerID, dateKey)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}
	return s.lawyerExists(ctx, lawyerID)
}

func (s *Store) BookedSlots(ctx context.Context, lawyerID string) (models.SlotsBooked, error) {
	var l models.Lawyer
	err := s.db.WithContext(ctx).Select("id", "slots_booked").First(&l, "id = ?", lawyerID).Error
	if err != nil {
		return nil, translate(err)
	}
	return l.SlotsBooked, nil
}

func (s *Store) lawyerExists(ctx context.Context, id string) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Lawyer{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Consultations

func (s *Store) CreateConsultation(ctx context.Context, c *models.Consultation) error {
	return translate(s.db.WithContext(ctx).Create(c).Error)
}

func (s *Store) GetConsultation(ctx context.Context, id string) (*models.Consultation, error) {
	var c models.Consultation
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *Store) consultationQuery(ctx context.Context, f repository.ConsultationFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Consultation{})
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.LawyerID != "" {
		q = q.Where("lawyer_id = ?", f.LawyerID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.NotCancelled {
		q = q.Where("cancelled = ?", false)
	}
	return q
}

func (s *Store) ListConsultations(ctx context.Context, f repository.ConsultationFilter) ([]models.Consultation, error) {
	var out []models.Consultation
	q := s.consultationQuery(ctx, f).Order("created_at DESC, id")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// UpdateConsultationIf is a compare-and-set on (status, cancelled).
func (s *Store) UpdateConsultationIf(ctx context.Context, c *models.Consultation, guard models.Guard) error {
	c.UpdatedAt = s.now()
	res := s.db.WithContext(ctx).Model(&models.Consultation{}).
		Where("id = ? AND status = ? AND cancelled = ?", c.ID, guard.Status, guard.Cancelled).
		Select("*").Omit("id", "created_at").
		Updates(c)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}
	if _, err := s.GetConsultation(ctx, c.ID); err != nil {
		return err
	}
	return repository.ErrStaleState
}

func (s *Store) CountConsultations(ctx context.Context, f repository.ConsultationFilter) (int64, error) {
	var n int64
	err := s.consultationQuery(ctx, f).Count(&n).Error
	return n, err
}

func (s *Store) LawyerEarnings(ctx context.Context, lawyerID string) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&models.Consultation{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("lawyer_id = ? AND (status = ? OR paid = ?)", lawyerID, models.StatusCompleted, true).
		Scan(&total).Error
	return total, err
}

// Admins

func (s *Store) UpsertAdmin(ctx context.Context, a *models.Admin) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"password", "updated_at"}),
	}).Create(a).Error
	if err != nil {
		return translate(err)
	}
	stored, err := s.GetAdminByEmail(ctx, a.Email)
	if err != nil {
		return err
	}
	*a = *stored
	return nil
}

func (s *Store) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var a models.Admin
	if err := s.db.WithContext(ctx).First(&a, "LOWER(email) = LOWER(?)", email).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *Store) GetAdminByID(ctx context.Context, id string) (*models.Admin, error) {
	var a models.Admin
	if err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}
