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

const collectionServices = "services"

type ServiceRepository struct {
	col *mongo.Collection
}

func NewServiceRepository(db *mongo.Database) *ServiceRepository {
	return &ServiceRepository{col: db.Collection(collectionServices)}
}

type serviceDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Name            string             `bson:"name"`
	Slug            string             `bson:"slug"`
	Description     string             `bson:"description"`
	FullDescription string             `bson:"fullDescription"`
	Price           float64            `bson:"price"`
	Category        string             `bson:"category"`
	DeliveryTime    string             `bson:"deliveryTime"`
	Features        []string           `bson:"features"`
	Tags            []string           `bson:"tags"`
	Image           string             `bson:"image"`
	IsActive        bool               `bson:"isActive"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

func newServiceDoc(s *domain.Service) serviceDoc {
	return serviceDoc{
		Name:            s.Name,
		Slug:            s.Slug,
		Description:     s.Description,
		FullDescription: s.FullDescription,
		Price:           s.Price,
		Category:        string(s.Category),
		DeliveryTime:    s.DeliveryTime,
		Features:        s.Features,
		Tags:            s.Tags,
		Image:           s.Image,
		IsActive:        s.IsActive,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (d *serviceDoc) toDomain() *domain.Service {
	features, tags := d.Features, d.Tags
	if features == nil {
		features = []string{}
	}
	if tags == nil {
		tags = []string{}
	}
	return &domain.Service{
		ID:              d.ID.Hex(),
		Name:            d.Name,
		Slug:            d.Slug,
		Description:     d.Description,
		FullDescription: d.FullDescription,
		Price:           d.Price,
		Category:        domain.Category(d.Category),
		DeliveryTime:    d.DeliveryTime,
		Features:        features,
		Tags:            tags,
		Image:           d.Image,
		IsActive:        d.IsActive,
		CreatedAt:       d.CreatedAt.UTC(),
		UpdatedAt:       d.UpdatedAt.UTC(),
	}
}

func (r *ServiceRepository) Create(ctx context.Context, svc *domain.Service) (*domain.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newServiceDoc(svc)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, wrapError(err, nil, domain.ErrSlugTaken)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *ServiceRepository) FindByID(ctx context.Context, id string) (*domain.Service, error) {
	oid, err := objectID(id, domain.ErrServiceNotFound)
	if err != nil {
		return nil, err
	}
	doc, err := findOne[serviceDoc](ctx, r.col, bson.M{"_id": oid}, domain.ErrServiceNotFound)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *ServiceRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Service, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	out := make(map[string]*domain.Service, len(oids))
	if len(oids) == 0 {
		return out, nil
	}

	docs, err := findMany[serviceDoc](ctx, r.col, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find services: %w", err)
	}
	for _, doc := range docs {
		svc := doc.toDomain()
		out[svc.ID] = svc
	}
	return out, nil
}

func (r *ServiceRepository) FindBySlug(ctx context.Context, slug string) (*domain.Service, error) {
	doc, err := findOne[serviceDoc](ctx, r.col, bson.M{"slug": slug}, domain.ErrServiceNotFound)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

// List applies filter. Search relies on the text index over name,
// description and tags.
func (r *ServiceRepository) List(ctx context.Context, filter ports.ServiceFilter) ([]*domain.Service, error) {
	query := bson.M{}
	if filter.ActiveOnly {
		query["isActive"] = true
	}
	if filter.Category != "" {
		query["category"] = string(filter.Category)
	}
	if filter.Search != "" {
		query["$text"] = bson.M{"$search": filter.Search}
	}

	docs, err := findMany[serviceDoc](ctx, r.col, query, options.Find().SetSort(serviceSort(filter.Sort)))
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	out := make([]*domain.Service, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func serviceSort(s ports.ServiceSort) bson.D {
	switch s {
	case ports.SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}}
	case ports.SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}}
	case ports.SortName:
		return bson.D{{Key: "name", Value: 1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

// Update overwrites every mutable field of svc. createdAt is never touched.
func (r *ServiceRepository) Update(ctx context.Context, svc *domain.Service) error {
	oid, err := objectID(svc.ID, domain.ErrServiceNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newServiceDoc(svc)
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":            doc.Name,
		"slug":            doc.Slug,
		"description":     doc.Description,
		"fullDescription": doc.FullDescription,
		"price":           doc.Price,
		"category":        doc.Category,
		"deliveryTime":    doc.DeliveryTime,
		"features":        doc.Features,
		"tags":            doc.Tags,
		"image":           doc.Image,
		"isActive":        doc.IsActive,
		"updatedAt":       doc.UpdatedAt,
	}})
	if err != nil {
		return wrapError(err, nil, domain.ErrSlugTaken)
	}
	if res.MatchedCount == 0 {
		return domain.ErrServiceNotFound
	}
	return nil
}

func (r *ServiceRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrServiceNotFound)
	if err != nil {
		return err
	}
	return deleteByID(ctx, r.col, oid, domain.ErrServiceNotFound)
}

// EnsureIndexes creates the unique slug index and the catalog text index.
func (r *ServiceRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "category", Value: 1}}},
		{Keys: bson.D{
			{Key: "name", Value: "text"},
			{Key: "description", Value: "text"},
			{Key: "tags", Value: "text"},
		}},
	})
	return err
}
