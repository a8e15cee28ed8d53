package models_test

import (
	"testing"

	"github.com/dalemusser/streamify/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPairKey_OrderIndependent(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	if models.PairKey(a, b) != models.PairKey(b, a) {
		t.Error("pair key must not depend on argument order")
	}
	if models.PairKey(a, b) == models.PairKey(a, primitive.NewObjectID()) {
		t.Error("different pairs must produce different keys")
	}
}
