package mongodb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	productDomain "github.com/davicafu/tiendalab/internal/product/domain"
	sharedDomain "github.com/davicafu/tiendalab/internal/shared/domain"
)

// ProductRepoMongoDB implementa la interfaz ProductRepository para MongoDB.
type ProductRepoMongoDB struct {
	client       *mongo.Client
	dbName       string
	productsColl *mongo.Collection
	outboxColl   *mongo.Collection
}

// NewProductRepoMongoDB es el constructor del repositorio.
func NewProductRepoMongoDB(ctx context.Context, client *mongo.Client, dbName string) (*ProductRepoMongoDB, error) {
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("could not ping mongoDB: %w", err)
	}

	db := client.Database(dbName)
	return &ProductRepoMongoDB{
		client:       client,
		dbName:       dbName,
		productsColl: db.Collection("products"),
		outboxColl:   db.Collection("outbox"),
	}, nil
}

// --- Structs de BSON para el mapeo ---
// Se definen localmente para no "contaminar" el dominio con tags de BSON.

type mongoPrice struct {
	Amount        float64  `bson:"amount"`
	DiscountPrice *float64 `bson:"discountPrice,omitempty"`
	Currency      string   `bson:"currency"`
}

type mongoProduct struct {
	ID          string     `bson:"_id"`
	SellerID    string     `bson:"sellerId"`
	Name        string     `bson:"name"`
	Description string     `bson:"description"`
	Category    string     `bson:"category"`
	Stock       int        `bson:"stock"`
	Price       mongoPrice `bson:"price"`
	CreatedAt   time.Time  `bson:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt"`
}

type mongoOutboxEvent struct {
	ID            string    `bson:"_id"`
	AggregateType string    `bson:"aggregateType"`
	AggregateID   string    `bson:"aggregateId"`
	EventType     string    `bson:"eventType"`
	Payload       string    `bson:"payload"` // JSON del snapshot, los bytes exactos que publicará el relayer
	CreatedAt     time.Time `bson:"createdAt"`
	Processed     bool      `bson:"processed"`
}

func toMongoProduct(p *productDomain.Product) mongoProduct {
	return mongoProduct{
		ID:          p.ID,
		SellerID:    p.SellerID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Stock:       p.Stock,
		Price: mongoPrice{
			Amount:        p.Price.Amount,
			DiscountPrice: p.Price.DiscountPrice,
			Currency:      p.Price.Currency,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func fromMongoProduct(m mongoProduct) *productDomain.Product {
	return &productDomain.Product{
		ID:          m.ID,
		SellerID:    m.SellerID,
		Name:        m.Name,
		Description: m.Description,
		Category:    m.Category,
		Stock:       m.Stock,
		Price: productDomain.Price{
			Amount:        m.Price.Amount,
			DiscountPrice: m.Price.DiscountPrice,
			Currency:      m.Price.Currency,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// toMongoOutboxEvents serializa cada payload a JSON al escribir. Guardar el
// struct sin serializar dejaría en BSON los nombres de campo de Go, y el
// relayer publicaría un documento irreconocible para los consumidores.
func toMongoOutboxEvents(evts []sharedDomain.OutboxEvent) ([]interface{}, error) {
	docs := make([]interface{}, 0, len(evts))
	for _, evt := range evts {
		payload, err := json.Marshal(evt.Payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal outbox payload: %w", err)
		}
		docs = append(docs, mongoOutboxEvent{
			ID:            evt.ID.String(),
			AggregateType: evt.AggregateType,
			AggregateID:   evt.AggregateID,
			EventType:     evt.EventType,
			Payload:       string(payload),
			CreatedAt:     evt.CreatedAt,
			Processed:     false,
		})
	}
	return docs, nil
}

// --- CRUD Transaccional ---

func (r *ProductRepoMongoDB) Create(ctx context.Context, p *productDomain.Product, evts []sharedDomain.OutboxEvent) error {
	docs, err := toMongoOutboxEvents(evts)
	if err != nil {
		return err
	}

	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	// La transacción asegura que ambas inserciones (producto y eventos) sean atómicas.
	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if _, err := r.productsColl.InsertOne(sessCtx, toMongoProduct(p)); err != nil {
			return nil, err
		}
		if _, err := r.outboxColl.InsertMany(sessCtx, docs); err != nil {
			return nil, err
		}
		return nil, nil
	})

	return err
}

func (r *ProductRepoMongoDB) Update(ctx context.Context, p *productDomain.Product, evts []sharedDomain.OutboxEvent) error {
	docs, err := toMongoOutboxEvents(evts)
	if err != nil {
		return err
	}

	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		mp := toMongoProduct(p)
		res, err := r.productsColl.UpdateOne(sessCtx, bson.M{"_id": mp.ID}, bson.M{"$set": mp})
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, productDomain.ErrProductNotFound
		}

		if _, err := r.outboxColl.InsertMany(sessCtx, docs); err != nil {
			return nil, err
		}
		return nil, nil
	})

	return err
}

func (r *ProductRepoMongoDB) DeleteByID(ctx context.Context, id string, evts []sharedDomain.OutboxEvent) error {
	docs, err := toMongoOutboxEvents(evts)
	if err != nil {
		return err
	}

	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		res, err := r.productsColl.DeleteOne(sessCtx, bson.M{"_id": id})
		if err != nil {
			return nil, err
		}
		if res.DeletedCount == 0 {
			return nil, productDomain.ErrProductNotFound
		}

		if _, err := r.outboxColl.InsertMany(sessCtx, docs); err != nil {
			return nil, err
		}
		return nil, nil
	})

	return err
}

// DecrementStock descuenta las unidades con $inc y deja el evento de stock
// resultante en el outbox dentro de la misma transacción.
func (r *ProductRepoMongoDB) DecrementStock(ctx context.Context, id string, qty int, evts func(p *productDomain.Product) []sharedDomain.OutboxEvent) (*productDomain.Product, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		update := bson.M{
			"$inc": bson.M{"stock": -qty},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		}

		var m mongoProduct
		err := r.productsColl.FindOneAndUpdate(sessCtx, bson.M{"_id": id}, update, opts).Decode(&m)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, productDomain.ErrProductNotFound
			}
			return nil, err
		}

		p := fromMongoProduct(m)
		docs, err := toMongoOutboxEvents(evts(p))
		if err != nil {
			return nil, err
		}
		if _, err := r.outboxColl.InsertMany(sessCtx, docs); err != nil {
			return nil, err
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*productDomain.Product), nil
}

// --- Lectura ---

func (r *ProductRepoMongoDB) GetByID(ctx context.Context, id string) (*productDomain.Product, error) {
	var m mongoProduct
	err := r.productsColl.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, productDomain.ErrProductNotFound
		}
		return nil, err
	}
	return fromMongoProduct(m), nil
}

func (r *ProductRepoMongoDB) ListBySeller(ctx context.Context, sellerID string) ([]*productDomain.Product, error) {
	cursor, err := r.productsColl.Find(ctx, bson.M{"sellerId": sellerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []*productDomain.Product
	for cursor.Next(ctx) {
		var m mongoProduct
		if err := cursor.Decode(&m); err != nil {
			return nil, err
		}
		products = append(products, fromMongoProduct(m))
	}
	return products, cursor.Err()
}

// Verificación estática
var _ productDomain.ProductRepository = (*ProductRepoMongoDB)(nil)
