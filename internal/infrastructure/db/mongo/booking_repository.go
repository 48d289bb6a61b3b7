package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/monochrome/services-api/internal/core/domain"
	"github.com/monochrome/services-api/internal/core/ports"
)

const collectionBookings = "bookings"

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection(collectionBookings)}
}

type statusChangeDoc struct {
	Status    string    `bson:"status"`
	ChangedAt time.Time `bson:"changedAt"`
	ChangedBy string    `bson:"changedBy,omitempty"`
}

// bookingDoc stores userId as null for anonymous bookings.
type bookingDoc struct {
	ID                 primitive.ObjectID  `bson:"_id,omitempty"`
	UserID             *primitive.ObjectID `bson:"userId"`
	ServiceID          primitive.ObjectID  `bson:"serviceId"`
	ServiceName        string              `bson:"serviceName"`
	ServicePrice       float64             `bson:"servicePrice"`
	Name               string              `bson:"name"`
	Email              string              `bson:"email"`
	Phone              string              `bson:"phone"`
	Company            string              `bson:"company,omitempty"`
	ProjectDescription string              `bson:"projectDescription"`
	Budget             string              `bson:"budget"`
	Timeline           string              `bson:"timeline"`
	Status             string              `bson:"status"`
	AdminNotes         *string             `bson:"adminNotes,omitempty"`
	StatusHistory      []statusChangeDoc   `bson:"statusHistory"`
	CreatedAt          time.Time           `bson:"createdAt"`
	UpdatedAt          time.Time           `bson:"updatedAt"`
}

func historyDocs(changes []domain.StatusChange) []statusChangeDoc {
	out := make([]statusChangeDoc, len(changes))
	for i, ch := range changes {
		out[i] = statusChangeDoc{Status: string(ch.Status), ChangedAt: ch.ChangedAt, ChangedBy: ch.ChangedBy}
	}
	return out
}

func (d *bookingDoc) toDomain() *domain.Booking {
	b := &domain.Booking{
		ID:                 d.ID.Hex(),
		ServiceID:          d.ServiceID.Hex(),
		ServiceName:        d.ServiceName,
		ServicePrice:       d.ServicePrice,
		Name:               d.Name,
		Email:              d.Email,
		Phone:              d.Phone,
		Company:            d.Company,
		ProjectDescription: d.ProjectDescription,
		Budget:             domain.Budget(d.Budget),
		Timeline:           domain.Timeline(d.Timeline),
		Status:             domain.BookingStatus(d.Status),
		AdminNotes:         d.AdminNotes,
		StatusHistory:      make([]domain.StatusChange, len(d.StatusHistory)),
		CreatedAt:          d.CreatedAt.UTC(),
		UpdatedAt:          d.UpdatedAt.UTC(),
	}
	if d.UserID != nil {
		uid := d.UserID.Hex()
		b.UserID = &uid
	}
	for i, h := range d.StatusHistory {
		b.StatusHistory[i] = domain.StatusChange{
			Status:    domain.BookingStatus(h.Status),
			ChangedAt: h.ChangedAt.UTC(),
			ChangedBy: h.ChangedBy,
		}
	}
	return b
}

func toDomainBookings(docs []*bookingDoc) []*domain.Booking {
	out := make([]*domain.Booking, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	serviceID, err := objectID(b.ServiceID, domain.ErrServiceNotFound)
	if err != nil {
		return nil, err
	}
	doc := bookingDoc{
		ServiceID:          serviceID,
		ServiceName:        b.ServiceName,
		ServicePrice:       b.ServicePrice,
		Name:               b.Name,
		Email:              b.Email,
		Phone:              b.Phone,
		Company:            b.Company,
		ProjectDescription: b.ProjectDescription,
		Budget:             string(b.Budget),
		Timeline:           string(b.Timeline),
		Status:             string(b.Status),
		AdminNotes:         b.AdminNotes,
		StatusHistory:      historyDocs(b.StatusHistory),
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
	if b.UserID != nil {
		uid, err := objectID(*b.UserID, domain.ErrUserNotFound)
		if err != nil {
			return nil, err
		}
		doc.UserID = &uid
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	oid, err := objectID(id, domain.ErrBookingNotFound)
	if err != nil {
		return nil, err
	}
	doc, err := findOne[bookingDoc](ctx, r.col, bson.M{"_id": oid}, domain.ErrBookingNotFound)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

func (r *BookingRepository) List(ctx context.Context, filter ports.ListBookingsFilter) ([]*domain.Booking, int64, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}

	countCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	total, err := r.col.CountDocuments(countCtx, query)
	cancel()
	if err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	opts := options.Find().
		SetSort(newestFirst).
		SetSkip(int64(filter.Page-1) * int64(filter.Limit)).
		SetLimit(int64(filter.Limit))
	docs, err := findMany[bookingDoc](ctx, r.col, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	return toDomainBookings(docs), total, nil
}

// ListForCustomer matches on the owner id or, for bookings placed before the
// customer signed in, on the contact email.
func (r *BookingRepository) ListForCustomer(ctx context.Context, userID, email string) ([]*domain.Booking, error) {
	or := bson.A{bson.M{"email": email}}
	if oid, err := primitive.ObjectIDFromHex(userID); err == nil {
		or = append(or, bson.M{"userId": oid})
	}

	docs, err := findMany[bookingDoc](ctx, r.col, bson.M{"$or": or}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("list customer bookings: %w", err)
	}
	return toDomainBookings(docs), nil
}

// Update sets status, notes and updatedAt, and appends the new history
// entries in the same write.
func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking, appended []domain.StatusChange) error {
	oid, err := objectID(b.ID, domain.ErrBookingNotFound)
	if err != nil {
		return err
	}

	set := bson.M{
		"status":    string(b.Status),
		"updatedAt": b.UpdatedAt,
	}
	if b.AdminNotes != nil {
		set["adminNotes"] = *b.AdminNotes
	}
	update := bson.M{"$set": set}
	if len(appended) > 0 {
		update["$push"] = bson.M{"statusHistory": bson.M{"$each": historyDocs(appended)}}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrBookingNotFound)
	if err != nil {
		return err
	}
	return deleteByID(ctx, r.col, oid, domain.ErrBookingNotFound)
}

func (r *BookingRepository) CountByStatus(ctx context.Context) (map[domain.BookingStatus]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	})
	if err != nil {
		return nil, fmt.Errorf("count bookings by status: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("count bookings by status: %w", err)
	}

	counts := make(map[domain.BookingStatus]int64, len(rows))
	for _, row := range rows {
		counts[domain.BookingStatus(row.Status)] = row.Count
	}
	return counts, nil
}

func (r *BookingRepository) Recent(ctx context.Context, limit int) ([]*domain.Booking, error) {
	docs, err := findMany[bookingDoc](ctx, r.col, bson.M{}, options.Find().SetSort(newestFirst).SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("recent bookings: %w", err)
	}
	return toDomainBookings(docs), nil
}

// EnsureIndexes creates indexes on the collection's query paths.
func (r *BookingRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "email", Value: 1}}},
	})
	return err
}
