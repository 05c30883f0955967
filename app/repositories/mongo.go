package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/dinehub/app/models"
	"github.com/shashiranjanraj/dinehub/pkg/metrics"
	"github.com/shashiranjanraj/dinehub/pkg/mongodb"
)

const (
	usersCollection  = "users"
	menuCollection   = "menuitems"
	ordersCollection = "orders"
)

// NewMongoStores wraps db. Call EnsureMongoIndexes once at boot.
func NewMongoStores(db *mongo.Database) *Stores {
	return &Stores{
		Driver: "mongo",
		Users:  &mongoUsers{col: db.Collection(usersCollection)},
		Menu:   &mongoMenu{col: db.Collection(menuCollection)},
		Orders: &mongoOrders{col: db.Collection(ordersCollection)},
		ping: func(ctx context.Context) error {
			return db.Client().Ping(ctx, nil)
		},
		close: func(ctx context.Context) error { return mongodb.Disconnect(ctx, db) },
	}
}

// EnsureMongoIndexes creates the unique email index and the listing indexes.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}
	if _, err := db.Collection(menuCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: 1}},
	}); err != nil {
		return err
	}
	_, err := db.Collection(ordersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	return err
}

func mongoNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// ─── Users ───────────────────────────────────────────────────────────────────

type mongoUsers struct{ col *mongo.Collection }

func (r *mongoUsers) Create(ctx context.Context, u *models.User) error {
	defer metrics.TimeQuery("mongo", "insert")()

	if err := u.HashPendingPassword(); err != nil {
		return err
	}
	stamp(&u.CreatedAt, &u.UpdatedAt, time.Now().UTC())

	if _, err := r.col.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *mongoUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	defer metrics.TimeQuery("mongo", "select")()

	var u models.User
	opts := options.FindOne().SetProjection(bson.M{"password": 0})
	if err := r.col.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&u); err != nil {
		return nil, mongoNotFound(err)
	}
	return &u, nil
}

func (r *mongoUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	defer metrics.TimeQuery("mongo", "select")()

	var u models.User
	if err := r.col.FindOne(ctx, bson.M{"email": models.NormalizeEmail(email)}).Decode(&u); err != nil {
		return nil, mongoNotFound(err)
	}
	return &u, nil
}

func (r *mongoUsers) SetRole(ctx context.Context, id, role string) error {
	defer metrics.TimeQuery("mongo", "update")()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"role": role, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ─── Menu ────────────────────────────────────────────────────────────────────

type mongoMenu struct{ col *mongo.Collection }

func (r *mongoMenu) Create(ctx context.Context, item *models.MenuItem) error {
	defer metrics.TimeQuery("mongo", "insert")()

	stamp(&item.CreatedAt, &item.UpdatedAt, time.Now().UTC())
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *mongoMenu) FindByID(ctx context.Context, id string) (*models.MenuItem, error) {
	defer metrics.TimeQuery("mongo", "select")()

	var item models.MenuItem
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return nil, mongoNotFound(err)
	}
	return &item, nil
}

func (r *mongoMenu) List(ctx context.Context, category models.Category) ([]models.MenuItem, error) {
	defer metrics.TimeQuery("mongo", "select")()

	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	items := []models.MenuItem{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *mongoMenu) Update(ctx context.Context, item *models.MenuItem) error {
	defer metrics.TimeQuery("mongo", "update")()

	item.UpdatedAt = time.Now().UTC()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": item.ID}, item)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoMenu) Delete(ctx context.Context, id string) error {
	defer metrics.TimeQuery("mongo", "delete")()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ─── Orders ──────────────────────────────────────────────────────────────────

type mongoOrders struct{ col *mongo.Collection }

func (r *mongoOrders) Create(ctx context.Context, o *models.Order) error {
	defer metrics.TimeQuery("mongo", "insert")()

	stamp(&o.CreatedAt, &o.UpdatedAt, time.Now().UTC())
	_, err := r.col.InsertOne(ctx, o)
	return err
}

func (r *mongoOrders) FindByID(ctx context.Context, id string) (*models.Order, error) {
	defer metrics.TimeQuery("mongo", "select")()

	var o models.Order
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		return nil, mongoNotFound(err)
	}
	return &o, nil
}

func (r *mongoOrders) List(ctx context.Context) ([]models.Order, error) {
	defer metrics.TimeQuery("mongo", "select")()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *mongoOrders) UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus, at time.Time) (*models.Order, error) {
	defer metrics.TimeQuery("mongo", "update")()

	var o models.Order
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updatedAt": at}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&o)
	if err == nil {
		return &o, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return nil, ErrStatusConflict
}

func (r *mongoOrders) Delete(ctx context.Context, id string) error {
	defer metrics.TimeQuery("mongo", "delete")()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
