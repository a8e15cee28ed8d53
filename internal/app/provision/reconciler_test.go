package provision_test

import (
	"testing"
	"time"

	"github.com/dalemusser/streamify/internal/app/provision"
	groupstore "github.com/dalemusser/streamify/internal/app/store/groups"
	"github.com/dalemusser/streamify/internal/app/stream"
	"github.com/dalemusser/streamify/internal/testutil"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestReconciler_ResolvesStaleMarker(t *testing.T) {
	db := testutil.SetupTestDB(t)
	groups := groupstore.New(db)
	provider := testutil.NewFakeChannelProvider()
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator")
	channelID := uuid.NewString()

	// An orphaned channel whose commit never landed.
	if _, err := provider.CreateChannel(ctx, provision.ChannelKind, channelID, stream.ChannelInput{}); err != nil {
		t.Fatalf("CreateChannel failed: %v", err)
	}
	if _, err := groups.InsertProvisioning(ctx, "Orphan",
		[]primitive.ObjectID{creator.ID}, creator.ID, channelID); err != nil {
		t.Fatalf("InsertProvisioning failed: %v", err)
	}

	// staleAfter of zero makes the fresh marker immediately eligible.
	rec := provision.NewReconciler(groups, provider, zap.NewNop(), time.Hour, 0)
	rec.Pass()

	count, err := groups.CountAll(ctx)
	if err != nil {
		t.Fatalf("CountAll failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected marker removed, got %d documents", count)
	}
	if provider.HasChannel(channelID) {
		t.Error("expected orphaned channel torn down")
	}
}

func TestReconciler_LeavesFreshMarkers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	groups := groupstore.New(db)
	provider := testutil.NewFakeChannelProvider()
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator")
	if _, err := groups.InsertProvisioning(ctx, "In Flight",
		[]primitive.ObjectID{creator.ID}, creator.ID, uuid.NewString()); err != nil {
		t.Fatalf("InsertProvisioning failed: %v", err)
	}

	rec := provision.NewReconciler(groups, provider, zap.NewNop(), time.Hour, time.Hour)
	rec.Pass()

	count, err := groups.CountAll(ctx)
	if err != nil {
		t.Fatalf("CountAll failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected in-flight marker untouched, got %d documents", count)
	}
}

func TestReconciler_RetriesFailedTeardown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	groups := groupstore.New(db)
	provider := testutil.NewFakeChannelProvider()
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator")
	if _, err := groups.InsertProvisioning(ctx, "Stuck",
		[]primitive.ObjectID{creator.ID}, creator.ID, uuid.NewString()); err != nil {
		t.Fatalf("InsertProvisioning failed: %v", err)
	}

	rec := provision.NewReconciler(groups, provider, zap.NewNop(), time.Hour, 0)

	// A failed teardown keeps the marker for the next pass.
	provider.FailDeleteChannel = true
	rec.Pass()

	count, _ := groups.CountAll(ctx)
	if count != 1 {
		t.Fatalf("expected marker kept after failed teardown, got %d documents", count)
	}

	provider.FailDeleteChannel = false
	rec.Pass()

	count, _ = groups.CountAll(ctx)
	if count != 0 {
		t.Errorf("expected marker resolved on retry, got %d documents", count)
	}
}
