// Package mongo implements repository.Store on MongoDB. Ledger mutations use
// single-document conditional updates so concurrent bookings cannot both win.
package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/Piyush-gour/legal-sathi/models"
	"github.com/Piyush-gour/legal-sathi/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection         = "users"
	lawyersCollection       = "lawyers"
	adminsCollection        = "admins"
	consultationsCollection = "consultations"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
	now    func() time.Time
}

var _ repository.Store = (*Store)(nil)

func New(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{client: client, db: db, now: time.Now}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique and lookup indexes the store relies on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		lawyersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{
				Keys: bson.D{{Key: "bar_id", Value: 1}},
				Options: options.Index().SetUnique(true).
					SetPartialFilterExpression(bson.M{"bar_id": bson.M{"$type": "string"}}),
			},
			{Keys: bson.D{{Key: "approved", Value: 1}, {Key: "available", Value: 1}}},
		},
		adminsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		consultationsCollection: {
			{Keys: bson.D{{Key: "lawyer_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
	}
	for coll, idx := range specs {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return err
		}
	}
	return nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repository.ErrDuplicate
	}
	return err
}

func (s *Store) findOne(ctx context.Context, coll string, filter bson.M, out interface{}) error {
	return translate(s.db.Collection(coll).FindOne(ctx, filter).Decode(out))
}

func (s *Store) setFields(ctx context.Context, coll, id string, fields bson.M) error {
	fields["updated_at"] = s.now()
	res, err := s.db.Collection(coll).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store) stamp(created, updated *time.Time) {
	now := s.now()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

// Users

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.stamp(&u.CreatedAt, &u.UpdatedAt)
	_, err := s.db.Collection(usersCollection).InsertOne(ctx, u)
	return translate(err)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.findOne(ctx, usersCollection, bson.M{"_id": id}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.findOne(ctx, usersCollection, bson.M{"email": email}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	u.UpdatedAt = s.now()
	return s.setFields(ctx, usersCollection, u.ID, bson.M{
		"name":    u.Name,
		"image":   u.Image,
		"phone":   u.Phone,
		"address": u.Address,
		"gender":  u.Gender,
		"dob":     u.DOB,
	})
}

func (s *Store) SetUserBlocked(ctx context.Context, id string, blocked bool) error {
	return s.setFields(ctx, usersCollection, id, bson.M{"blocked": blocked})
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	return s.db.Collection(usersCollection).CountDocuments(ctx, bson.M{})
}

// Lawyers

func (s *Store) CreateLawyer(ctx context.Context, l *models.Lawyer) error {
	// $push into slots_booked.<key> fails on a null parent, so always store a document.
	if l.SlotsBooked == nil {
		l.SlotsBooked = models.SlotsBooked{}
	}
	s.stamp(&l.CreatedAt, &l.UpdatedAt)
	_, err := s.db.Collection(lawyersCollection).InsertOne(ctx, l)
	return translate(err)
}

func (s *Store) GetLawyerByID(ctx context.Context, id string) (*models.Lawyer, error) {
	var l models.Lawyer
	if err := s.findOne(ctx, lawyersCollection, bson.M{"_id": id}, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *Store) GetLawyerByEmail(ctx context.Context, email string) (*models.Lawyer, error) {
	var l models.Lawyer
	if err := s.findOne(ctx, lawyersCollection, bson.M{"email": email}, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *Store) UpdateLawyerProfile(ctx context.Context, l *models.Lawyer) error {
	l.UpdatedAt = s.now()
	return s.setFields(ctx, lawyersCollection, l.ID, bson.M{
		"name":          l.Name,
		"image":         l.Image,
		"speciality":    l.Speciality,
		"qualification": l.Qualification,
		"experience":    l.Experience,
		"about":         l.About,
		"fees":          l.Fees,
		"address":       l.Address,
	})
}

func lawyerFilter(f repository.LawyerFilter) bson.M {
	filter := bson.M{}
	if f.Approved != nil {
		filter["approved"] = *f.Approved
	}
	if f.Available != nil {
		filter["available"] = *f.Available
	}
	return filter
}

func (s *Store) ListLawyers(ctx context.Context, f repository.LawyerFilter) ([]models.Lawyer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := s.db.Collection(lawyersCollection).Find(ctx, lawyerFilter(f), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	lawyers := []models.Lawyer{}
	if err := cursor.All(ctx, &lawyers); err != nil {
		return nil, err
	}
	return lawyers, nil
}

func (s *Store) SetLawyerApproved(ctx context.Context, id string, approved bool) error {
	return s.setFields(ctx, lawyersCollection, id, bson.M{"approved": approved})
}

func (s *Store) SetLawyerAvailable(ctx context.Context, id string, available bool) error {
	return s.setFields(ctx, lawyersCollection, id, bson.M{"available": available})
}

func (s *Store) DeletePendingLawyer(ctx context.Context, id string) error {
	res, err := s.db.Collection(lawyersCollection).DeleteOne(ctx, bson.M{"_id": id, "approved": false})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store) CountLawyers(ctx context.Context, f repository.LawyerFilter) (int64, error) {
	return s.db.Collection(lawyersCollection).CountDocuments(ctx, lawyerFilter(f))
}

// Ledger

func (s *Store) BookSlot(ctx context.Context, lawyerID, dateKey, timeLabel string) error {
	field := "slots_booked." + dateKey
	res, err := s.db.Collection(lawyersCollection).UpdateOne(ctx,
		bson.M{"_id": lawyerID, field: bson.M{"$ne": timeLabel}},
		bson.M{
			"$push": bson.M{field: timeLabel},
			"$set":  bson.M{"updated_at": s.now()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 1 {
		return nil
	}
	if err := s.lawyerExists(ctx, lawyerID); err != nil {
		return err
	}
	return repository.ErrSlotTaken
}

func (s *Store) ReleaseSlot(ctx context.Context, lawyerID, dateKey, timeLabel string) error {
	res, err := s.db.Collection(lawyersCollection).UpdateOne(ctx,
		bson.M{"_id": lawyerID},
		bson.M{
			"$pull": bson.M{"slots_booked." + dateKey: timeLabel},
			"$set":  bson.M{"updated_at": s.now()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store) BookedSlots(ctx context.Context, lawyerID string) (models.SlotsBooked, error) {
	var l models.Lawyer
	opts := options.FindOne().SetProjection(bson.M{"slots_booked": 1})
	err := s.db.Collection(lawyersCollection).FindOne(ctx, bson.M{"_id": lawyerID}, opts).Decode(&l)
	if err != nil {
		return nil, translate(err)
	}
	return l.SlotsBooked, nil
}

func (s *Store) lawyerExists(ctx context.Context, id string) error {
	n, err := s.db.Collection(lawyersCollection).CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Consultations

func (s *Store) CreateConsultation(ctx context.Context, c *models.Consultation) error {
	s.stamp(&c.CreatedAt, &c.UpdatedAt)
	_, err := s.db.Collection(consultationsCollection).InsertOne(ctx, c)
	return translate(err)
}

func (s *Store) GetConsultation(ctx context.Context, id string) (*models.Consultation, error) {
	var c models.Consultation
	if err := s.findOne(ctx, consultationsCollection, bson.M{"_id": id}, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func consultationFilter(f repository.ConsultationFilter) bson.M {
	filter := bson.M{}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.LawyerID != "" {
		filter["lawyer_id"] = f.LawyerID
	}
	if len(f.Statuses) > 0 {
		filter["status"] = bson.M{"$in": f.Statuses}
	}
	if f.NotCancelled {
		filter["cancelled"] = false
	}
	return filter
}

func (s *Store) ListConsultations(ctx context.Context, f repository.ConsultationFilter) ([]models.Consultation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	cursor, err := s.db.Collection(consultationsCollection).Find(ctx, consultationFilter(f), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []models.Consultation{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateConsultationIf replaces the document only while its status and
// cancelled flag still match guard.
func (s *Store) UpdateConsultationIf(ctx context.Context, c *models.Consultation, guard models.Guard) error {
	c.UpdatedAt = s.now()
	res, err := s.db.Collection(consultationsCollection).ReplaceOne(ctx,
		bson.M{"_id": c.ID, "status": guard.Status, "cancelled": guard.Cancelled},
		c,
	)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 1 {
		return nil
	}
	if _, err := s.GetConsultation(ctx, c.ID); err != nil {
		return err
	}
	return repository.ErrStaleState
}

func (s *Store) CountConsultations(ctx context.Context, f repository.ConsultationFilter) (int64, error) {
	return s.db.Collection(consultationsCollection).CountDocuments(ctx, consultationFilter(f))
}

func (s *Store) LawyerEarnings(ctx context.Context, lawyerID string) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"lawyer_id": lawyerID,
			"$or": bson.A{
				bson.M{"status": models.StatusCompleted},
				bson.M{"paid": true},
			},
		}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	}
	cursor, err := s.db.Collection(consultationsCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

// Admins

func (s *Store) UpsertAdmin(ctx context.Context, a *models.Admin) error {
	now := s.now()
	_, err := s.db.Collection(adminsCollection).UpdateOne(ctx,
		bson.M{"email": a.Email},
		bson.M{
			"$set":         bson.M{"password": a.Password, "updated_at": now},
			"$setOnInsert": bson.M{"_id": a.ID, "created_at": now},
		},
		options.Update().SetUpsert(true),
	)
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
	if err := s.findOne(ctx, adminsCollection, bson.M{"email": email}, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) GetAdminByID(ctx context.Context, id string) (*models.Admin, error) {
	var a models.Admin
	if err := s.findOne(ctx, adminsCollection, bson.M{"_id": id}, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
