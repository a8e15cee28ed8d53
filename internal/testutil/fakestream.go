package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/dalemusser/streamify/internal/app/stream"
)

// FakeChannelProvider is an in-memory stream.ChannelProvider for tests.
// Individual operations can be made to fail to exercise compensation
// paths.
type FakeChannelProvider struct {
	mu sync.Mutex

	FailUpsert        bool
	FailCreateChannel bool
	FailDeleteChannel bool

	UpsertedUsers   []stream.User
	CreatedChannels map[string]stream.ChannelInput
	DeletedChannels []string
}

// NewFakeChannelProvider returns a provider where every call succeeds.
func NewFakeChannelProvider() *FakeChannelProvider {
	return &FakeChannelProvider{
		CreatedChannels: make(map[string]stream.ChannelInput),
	}
}

var errFakeProvider = errors.New("fake provider failure")

func (f *FakeChannelProvider) UpsertUser(ctx context.Context, u stream.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailUpsert {
		return errFakeProvider
	}
	f.UpsertedUsers = append(f.UpsertedUsers, u)
	return nil
}

func (f *FakeChannelProvider) CreateChannel(ctx context.Context, kind, channelID string, in stream.ChannelInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailCreateChannel {
		return "", errFakeProvider
	}
	f.CreatedChannels[channelID] = in
	return channelID, nil
}

func (f *FakeChannelProvider) DeleteChannel(ctx context.Context, kind, channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailDeleteChannel {
		return errFakeProvider
	}
	f.DeletedChannels = append(f.DeletedChannels, channelID)
	delete(f.CreatedChannels, channelID)
	return nil
}

func (f *FakeChannelProvider) UserToken(userID string) (string, error) {
	return "test-token-" + userID, nil
}

// HasChannel reports whether a channel with the given id was created and
// not deleted.
func (f *FakeChannelProvider) HasChannel(channelID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.CreatedChannels[channelID]
	return ok
}
