package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SufiyaaanShaikh/ExploreMates-Backend/config"
	"github.com/SufiyaaanShaikh/ExploreMates-Backend/models"
)

// OTPRepository wraps the signup_otps collection. Expired documents are
// evicted by the TTL index on expiresAt; at most one document per email.
type OTPRepository struct {
	collection *mongo.Collection
}

func NewOTPRepository(db *mongo.Client) *OTPRepository {
	return &OTPRepository{
		collection: config.GetCollection(db, "signup_otps"),
	}
}

func (r *OTPRepository) FindByEmail(ctx context.Context, email string) (*models.SignupOTP, error) {
	var doc models.SignupOTP
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Replace removes any pending signup for the email and persists the new
// one, so a restarted signup invalidates the previous code
func (r *OTPRepository) Replace(ctx context.Context, doc *models.SignupOTP) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"email": doc.Email}); err != nil {
		return err
	}
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

// IncrementAttempts bumps the attempt counter and returns the post-increment
// value. The write lands before the caller evaluates the code, so a crash
// mid-check still counts the attempt.
func (r *OTPRepository) IncrementAttempts(ctx context.Context, email string) (int, error) {
	var updated models.SignupOTP
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"email": email},
		bson.M{"$inc": bson.M{"attempts": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return 0, err
	}
	return updated.Attempts, nil
}

func (r *OTPRepository) Delete(ctx context.Context, email string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"email": email})
	return err
}
