package groupstore_test

import (
	"errors"
	"testing"
	"time"

	groupstore "github.com/dalemusser/streamify/internal/app/store/groups"
	"github.com/dalemusser/streamify/internal/app/system/indexes"
	"github.com/dalemusser/streamify/internal/domain/models"
	"github.com/dalemusser/streamify/internal/testutil"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_InsertProvisioningAndCommit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator")
	member := fixtures.CreateUser(ctx, "Member")
	channelID := uuid.NewString()

	g, err := store.InsertProvisioning(ctx, "Study Group",
		[]primitive.ObjectID{creator.ID, member.ID}, creator.ID, channelID)
	if err != nil {
		t.Fatalf("InsertProvisioning failed: %v", err)
	}
	if g.Status != models.GroupProvisioning {
		t.Errorf("status: got %q, want %q", g.Status, models.GroupProvisioning)
	}

	// Provisioning records are invisible to listings.
	listed, err := store.ListActiveForUser(ctx, creator.ID)
	if err != nil {
		t.Fatalf("ListActiveForUser failed: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("expected no active groups before commit, got %d", len(listed))
	}

	if err := store.Commit(ctx, g.ID, channelID); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	listed, err = store.ListActiveForUser(ctx, creator.ID)
	if err != nil {
		t.Fatalf("ListActiveForUser failed: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 active group after commit, got %d", len(listed))
	}
	if listed[0].StreamChannelID != channelID {
		t.Errorf("channel id: got %q, want %q", listed[0].StreamChannelID, channelID)
	}
}

func TestStore_Commit_AlreadyActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator")
	g := fixtures.CreateGroup(ctx, "Already Active", creator)

	err := store.Commit(ctx, g.ID, g.StreamChannelID)
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments for non-provisioning group, got %v", err)
	}
}

func TestStore_DuplicateChannelRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	creator := fixtures.CreateUser(ctx, "Creator")
	channelID := uuid.NewString()

	if _, err := store.InsertProvisioning(ctx, "First",
		[]primitive.ObjectID{creator.ID}, creator.ID, channelID); err != nil {
		t.Fatalf("first InsertProvisioning failed: %v", err)
	}

	_, err := store.InsertProvisioning(ctx, "Second",
		[]primitive.ObjectID{creator.ID}, creator.ID, channelID)
	if !errors.Is(err, groupstore.ErrDuplicateChannel) {
		t.Errorf("expected ErrDuplicateChannel, got %v", err)
	}
}

func TestStore_StaleProvisioning(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator")

	g, err := store.InsertProvisioning(ctx, "Stuck",
		[]primitive.ObjectID{creator.ID}, creator.ID, uuid.NewString())
	if err != nil {
		t.Fatalf("InsertProvisioning failed: %v", err)
	}

	// Nothing is stale yet.
	stale, err := store.StaleProvisioning(ctx, time.Now().UTC().Add(-time.Minute))
	if err != nil {
		t.Fatalf("StaleProvisioning failed: %v", err)
	}
	if len(stale) != 0 {
		t.Errorf("expected no stale records, got %d", len(stale))
	}

	// With a cutoff in the future the fresh record qualifies.
	stale, err = store.StaleProvisioning(ctx, time.Now().UTC().Add(time.Minute))
	if err != nil {
		t.Fatalf("StaleProvisioning failed: %v", err)
	}
	if len(stale) != 1 || stale[0].ID != g.ID {
		t.Errorf("stale: got %v", stale)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator")
	g, err := store.InsertProvisioning(ctx, "Doomed",
		[]primitive.ObjectID{creator.ID}, creator.ID, uuid.NewString())
	if err != nil {
		t.Fatalf("InsertProvisioning failed: %v", err)
	}

	n, err := store.Delete(ctx, g.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted count: got %d, want 1", n)
	}

	count, err := store.CountAll(ctx)
	if err != nil {
		t.Fatalf("CountAll failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty collection, got %d documents", count)
	}
}
