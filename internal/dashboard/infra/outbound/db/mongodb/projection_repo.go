package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	dashDomain "github.com/davicafu/tiendalab/internal/dashboard/domain"
)

// ProjectionRepoMongoDB implementa ProjectionRepository sobre MongoDB, el
// almacén por defecto del dashboard.
type ProjectionRepoMongoDB struct {
	productsColl *mongo.Collection
	ordersColl   *mongo.Collection
	paymentsColl *mongo.Collection
}

func NewProjectionRepoMongoDB(ctx context.Context, client *mongo.Client, dbName string) (*ProjectionRepoMongoDB, error) {
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("could not ping mongoDB: %w", err)
	}

	db := client.Database(dbName)
	return &ProjectionRepoMongoDB{
		productsColl: db.Collection("product_projections"),
		ordersColl:   db.Collection("order_projections"),
		paymentsColl: db.Collection("payment_projections"),
	}, nil
}

// --- Structs de BSON para el mapeo ---

type mongoProductProjection struct {
	ID            string    `bson:"_id"`
	SellerID      string    `bson:"sellerId"`
	Name          string    `bson:"name"`
	Description   string    `bson:"description"`
	Category      string    `bson:"category"`
	Stock         int       `bson:"stock"`
	PriceAmount   float64   `bson:"priceAmount"`
	DiscountPrice *float64  `bson:"discountPrice,omitempty"`
	Currency      string    `bson:"currency"`
	UpdatedAt     time.Time `bson:"updatedAt"`
}

type mongoOrderProjection struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"userId"`
	ItemCount   int       `bson:"itemCount"`
	TotalAmount float64   `bson:"totalAmount"`
	Currency    string    `bson:"currency"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

type mongoPaymentProjection struct {
	ID        string    `bson:"_id"`
	OrderID   string    `bson:"orderId"`
	UserID    string    `bson:"userId"`
	Amount    float64   `bson:"amount"`
	Currency  string    `bson:"currency"`
	Status    string    `bson:"status"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func toMongoProduct(p dashDomain.ProductProjection) mongoProductProjection {
	return mongoProductProjection(p)
}

func toMongoOrder(o dashDomain.OrderProjection) mongoOrderProjection {
	return mongoOrderProjection(o)
}

func toMongoPayment(p dashDomain.PaymentProjection) mongoPaymentProjection {
	return mongoPaymentProjection(p)
}

// --- Productos ---

func (r *ProjectionRepoMongoDB) InsertProduct(ctx context.Context, p dashDomain.ProductProjection) error {
	_, err := r.productsColl.InsertOne(ctx, toMongoProduct(p))
	if mongo.IsDuplicateKeyError(err) {
		return dashDomain.ErrDuplicateProjection
	}
	return err
}

func (r *ProjectionRepoMongoDB) MergeProduct(ctx context.Context, p dashDomain.ProductProjection) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.productsColl.ReplaceOne(ctx, bson.M{"_id": p.ID}, toMongoProduct(p), opts)
	return err
}

func (r *ProjectionRepoMongoDB) UpdateProductStock(ctx context.Context, id string, stock int) error {
	opts := options.Update().SetUpsert(true)
	update := bson.M{"$set": bson.M{"stock": stock, "updatedAt": time.Now().UTC()}}
	_, err := r.productsColl.UpdateOne(ctx, bson.M{"_id": id}, update, opts)
	return err
}

func (r *ProjectionRepoMongoDB) DeleteProduct(ctx context.Context, id string) error {
	// Borrar lo ya borrado no es error: el handler es idempotente.
	_, err := r.productsColl.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// --- Pedidos ---

func (r *ProjectionRepoMongoDB) InsertOrder(ctx context.Context, o dashDomain.OrderProjection) error {
	_, err := r.ordersColl.InsertOne(ctx, toMongoOrder(o))
	if mongo.IsDuplicateKeyError(err) {
		return dashDomain.ErrDuplicateProjection
	}
	return err
}

func (r *ProjectionRepoMongoDB) UpdateOrderStatus(ctx context.Context, id, status string) error {
	opts := options.Update().SetUpsert(true)
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	_, err := r.ordersColl.UpdateOne(ctx, bson.M{"_id": id}, update, opts)
	return err
}

// --- Pagos ---

func (r *ProjectionRepoMongoDB) InsertPayment(ctx context.Context, p dashDomain.PaymentProjection) error {
	_, err := r.paymentsColl.InsertOne(ctx, toMongoPayment(p))
	if mongo.IsDuplicateKeyError(err) {
		return dashDomain.ErrDuplicateProjection
	}
	return err
}

func (r *ProjectionRepoMongoDB) MergePayment(ctx context.Context, p dashDomain.PaymentProjection) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.paymentsColl.ReplaceOne(ctx, bson.M{"_id": p.ID}, toMongoPayment(p), opts)
	return err
}

// --- Lectura ---

func (r *ProjectionRepoMongoDB) GetProduct(ctx context.Context, id string) (*dashDomain.ProductProjection, error) {
	var m mongoProductProjection
	err := r.productsColl.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, dashDomain.ErrProjectionNotFound
		}
		return nil, err
	}
	p := dashDomain.ProductProjection(m)
	return &p, nil
}

func (r *ProjectionRepoMongoDB) ListProductsBySeller(ctx context.Context, sellerID string) ([]dashDomain.ProductProjection, error) {
	cursor, err := r.productsColl.Find(ctx, bson.M{"sellerId": sellerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []dashDomain.ProductProjection
	for cursor.Next(ctx) {
		var m mongoProductProjection
		if err := cursor.Decode(&m); err != nil {
			return nil, err
		}
		products = append(products, dashDomain.ProductProjection(m))
	}
	return products, cursor.Err()
}

func (r *ProjectionRepoMongoDB) GetOrder(ctx context.Context, id string) (*dashDomain.OrderProjection, error) {
	var m mongoOrderProjection
	err := r.ordersColl.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, dashDomain.ErrProjectionNotFound
		}
		return nil, err
	}
	o := dashDomain.OrderProjection(m)
	return &o, nil
}

func (r *ProjectionRepoMongoDB) ListOrders(ctx context.Context, limit int) ([]dashDomain.OrderProjection, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(int64(limit))
	cursor, err := r.ordersColl.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []dashDomain.OrderProjection
	for cursor.Next(ctx) {
		var m mongoOrderProjection
		if err := cursor.Decode(&m); err != nil {
			return nil, err
		}
		orders = append(orders, dashDomain.OrderProjection(m))
	}
	return orders, cursor.Err()
}

func (r *ProjectionRepoMongoDB) ListPayments(ctx context.Context, limit int) ([]dashDomain.PaymentProjection, error) {
	opts := options.Find().SetSort(bson.M{"updatedAt": -1}).SetLimit(int64(limit))
	cursor, err := r.paymentsColl.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var payments []dashDomain.PaymentProjection
	for cursor.Next(ctx) {
		var m mongoPaymentProjection
		if err := cursor.Decode(&m); err != nil {
			return nil, err
		}
		payments = append(payments, dashDomain.PaymentProjection(m))
	}
	return payments, cursor.Err()
}

// Verificación estática
var _ dashDomain.ProjectionRepository = (*ProjectionRepoMongoDB)(nil)
