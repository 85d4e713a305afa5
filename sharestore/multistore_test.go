package sharestore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/keyquorum/share-recovery-backend/interfaces"
)

// MockShareStore implements interfaces.ShareStore for testing.
type MockShareStore struct {
	mock.Mock
	name string
}

func (m *MockShareStore) FetchSet(ctx context.Context, name interfaces.SetName) ([]byte, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockShareStore) StoreSet(ctx context.Context, name interfaces.SetName, data []byte) error {
	args := m.Called(ctx, name, data)
	return args.Error(0)
}

func (m *MockShareStore) Available(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockShareStore) Name() string {
	return m.name
}

func (m *MockShareStore) LocationURI() string {
	return "mock:" + m.name
}

func TestMultiStore_Available(t *testing.T) {
	tests := []struct {
		name     string
		stores   []bool
		expected bool
	}{
		{name: "all available", stores: []bool{true, true}, expected: true},
		{name: "some available", stores: []bool{false, true, false}, expected: true},
		{name: "none available", stores: []bool{false, false}, expected: false},
		{name: "no stores", stores: nil, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stores []interfaces.ShareStore
			for i, available := range tt.stores {
				m := &MockShareStore{name: string(rune('a' + i))}
				m.On("Available", mock.Anything).Return(available)
				stores = append(stores, m)
			}

			multi := NewMultiStore(stores, testLogger())
			assert.Equal(t, tt.expected, multi.Available(context.Background()))
		})
	}
}

func TestMultiStore_FetchFirstHit(t *testing.T) {
	ctx := context.Background()
	doc := []byte(`{"keys":{"n":1,"k":1}}`)

	miss := &MockShareStore{name: "miss"}
	miss.On("Available", mock.Anything).Return(true)
	miss.On("FetchSet", mock.Anything, interfaces.SetName("case1")).Return(nil, interfaces.ErrSetNotFound)

	hit := &MockShareStore{name: "hit"}
	hit.On("Available", mock.Anything).Return(true)
	hit.On("FetchSet", mock.Anything, interfaces.SetName("case1")).Return(doc, nil)

	unreached := &MockShareStore{name: "unreached"}

	multi := NewMultiStore([]interfaces.ShareStore{miss, hit, unreached}, testLogger())

	got, err := multi.FetchSet(ctx, "case1")
	require.NoError(t, err)
	assert.Equal(t, doc, got)
	unreached.AssertNotCalled(t, "FetchSet", mock.Anything, mock.Anything)
}

func TestMultiStore_FetchSkipsUnavailable(t *testing.T) {
	ctx := context.Background()
	doc := []byte(`{}`)

	down := &MockShareStore{name: "down"}
	down.On("Available", mock.Anything).Return(false)

	up := &MockShareStore{name: "up"}
	up.On("Available", mock.Anything).Return(true)
	up.On("FetchSet", mock.Anything, interfaces.SetName("case1")).Return(doc, nil)

	multi := NewMultiStore([]interfaces.ShareStore{down, up}, testLogger())

	got, err := multi.FetchSet(ctx, "case1")
	require.NoError(t, err)
	assert.Equal(t, doc, got)
	down.AssertNotCalled(t, "FetchSet", mock.Anything, mock.Anything)
}

func TestMultiStore_FetchAllMiss(t *testing.T) {
	a := &MockShareStore{name: "a"}
	a.On("Available", mock.Anything).Return(true)
	a.On("FetchSet", mock.Anything, mock.Anything).Return(nil, interfaces.ErrSetNotFound)

	multi := NewMultiStore([]interfaces.ShareStore{a}, testLogger())

	_, err := multi.FetchSet(context.Background(), "case1")
	assert.ErrorIs(t, err, interfaces.ErrSetNotFound)
}

func TestMultiStore_StoreToAll(t *testing.T) {
	ctx := context.Background()
	doc := []byte(`{}`)

	a := &MockShareStore{name: "a"}
	a.On("Available", mock.Anything).Return(true)
	a.On("StoreSet", mock.Anything, interfaces.SetName("case1"), doc).Return(nil)

	b := &MockShareStore{name: "b"}
	b.On("Available", mock.Anything).Return(true)
	b.On("StoreSet", mock.Anything, interfaces.SetName("case1"), doc).Return(errors.New("disk full"))

	multi := NewMultiStore([]interfaces.ShareStore{a, b}, testLogger())

	assert.NoError(t, multi.StoreSet(ctx, "case1", doc), "one successful backend is enough")
	a.AssertCalled(t, "StoreSet", mock.Anything, interfaces.SetName("case1"), doc)
	b.AssertCalled(t, "StoreSet", mock.Anything, interfaces.SetName("case1"), doc)

	// All backends failing is an error.
	c := &MockShareStore{name: "c"}
	c.On("Available", mock.Anything).Return(true)
	c.On("StoreSet", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("read-only"))

	multi = NewMultiStore([]interfaces.ShareStore{c}, testLogger())
	assert.Error(t, multi.StoreSet(ctx, "case1", doc))
}
