package vendors

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"playarena/internal/users"
	"playarena/pkg/cache"
)

type mapCache map[string][]byte

func (m mapCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := m[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m[key] = raw
	return nil
}

func (m mapCache) Delete(_ context.Context, key string) error {
	delete(m, key)
	return nil
}

func (m mapCache) DeletePattern(context.Context, string) error { return nil }

func (m mapCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	if err := m.Get(ctx, key, dest); err == nil {
		return nil
	}
	data, err := fetcher()
	if err != nil {
		return err
	}
	if err := m.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	return m.Get(ctx, key, dest)
}

func (m mapCache) Ping(context.Context) error { return nil }

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:vendors_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&users.User{}, &Vendor{}))
	return db
}

func createUser(t *testing.T, db *gorm.DB) *users.User {
	t.Helper()
	u := &users.User{FirstName: "Asha", LastName: "Rao", Password: "x", Role: users.RoleUser, Email: uuid.NewString() + "@example.com"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func application(gstin string) ApplyRequest {
	return ApplyRequest{
		BusinessName:      "Smash Courts",
		GSTIN:             gstin,
		PAN:               "ABCDE1234F",
		BankAccountHolder: "Smash Courts LLP",
		BankAccountNumber: "123456789012",
		IFSC:              "hdfc0001234",
	}
}

func TestApply_CreatesPendingApplication(t *testing.T) {
	db := setupDB(t)
	svc := NewService(NewRepository(db), nil)
	user := createUser(t, db)

	vendor, err := svc.Apply(context.Background(), user.ID, application(""))

	require.NoError(t, err)
	assert.Equal(t, StatusPending, vendor.Status)
	assert.Equal(t, "HDFC0001234", vendor.IFSC)
	assert.Equal(t, "XXXXXXXX9012", vendor.BankAccountNumber)
	assert.False(t, vendor.GSTRegistered)

	_, err = svc.Apply(context.Background(), user.ID, application(""))
	assert.ErrorIs(t, err, ErrAlreadyApplied)
}

func TestApply_GSTINMustEmbedPAN(t *testing.T) {
	db := setupDB(t)
	svc := NewService(NewRepository(db), nil)

	_, err := svc.Apply(context.Background(), createUser(t, db).ID, application("27ZZZZZ9999Z1Z5"))

	assert.ErrorIs(t, err, ErrGSTINMismatch)
}

func TestApprove_PromotesUserToVendor(t *testing.T) {
	db := setupDB(t)
	svc := NewService(NewRepository(db), nil)
	ctx := context.Background()
	user := createUser(t, db)
	admin := uuid.New()

	applied, err := svc.Apply(ctx, user.ID, application("27ABCDE1234F1Z5"))
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, admin, applied.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, admin, *approved.ReviewedBy)

	var reloaded users.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, users.RoleVendor, reloaded.Role)

	_, err = svc.Approve(ctx, admin, applied.ID)
	assert.ErrorIs(t, err, ErrNotPending)

	_, err = svc.Apply(ctx, user.ID, application(""))
	assert.ErrorIs(t, err, ErrAlreadyVendor)
}

func TestReject_KeepsRoleAndAllowsResubmission(t *testing.T) {
	db := setupDB(t)
	svc := NewService(NewRepository(db), nil)
	ctx := context.Background()
	user := createUser(t, db)

	applied, err := svc.Apply(ctx, user.ID, application(""))
	require.NoError(t, err)

	rejected, err := svc.Reject(ctx, uuid.New(), applied.ID, "bank proof missing")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)
	assert.Equal(t, "bank proof missing", rejected.RejectionReason)

	var reloaded users.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, users.RoleUser, reloaded.Role)

	again, err := svc.Apply(ctx, user.ID, application("27ABCDE1234F1Z5"))
	require.NoError(t, err)
	assert.Equal(t, applied.ID, again.ID)
	assert.Equal(t, StatusPending, again.Status)
	assert.Empty(t, again.RejectionReason)
	assert.Nil(t, again.ReviewedBy)
}

func TestReviewUnknownVendor(t *testing.T) {
	svc := NewService(NewRepository(setupDB(t)), nil)

	_, err := svc.Approve(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrVendorNotFound)

	_, err = svc.Reject(context.Background(), uuid.New(), uuid.New(), "duplicate listing")
	assert.ErrorIs(t, err, ErrVendorNotFound)
}

func TestIsGSTRegistered(t *testing.T) {
	db := setupDB(t)
	memo := mapCache{}
	svc := NewService(NewRepository(db), memo)
	ctx := context.Background()

	unknown, err := svc.IsGSTRegistered(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, unknown)

	user := createUser(t, db)
	applied, err := svc.Apply(ctx, user.ID, application(""))
	require.NoError(t, err)

	registered, err := svc.IsGSTRegistered(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, registered)

	// a resubmission with a GSTIN must not be masked by the cached answer
	_, err = svc.Reject(ctx, uuid.New(), applied.ID, "please add gstin")
	require.NoError(t, err)
	_, err = svc.Apply(ctx, user.ID, application("27ABCDE1234F1Z5"))
	require.NoError(t, err)

	registered, err = svc.IsGSTRegistered(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, registered)
}

func TestListVendors_FiltersByStatus(t *testing.T) {
	db := setupDB(t)
	svc := NewService(NewRepository(db), nil)
	ctx := context.Background()

	first, err := svc.Apply(ctx, createUser(t, db).ID, application(""))
	require.NoError(t, err)
	_, err = svc.Apply(ctx, createUser(t, db).ID, application(""))
	require.NoError(t, err)
	_, err = svc.Approve(ctx, uuid.New(), first.ID)
	require.NoError(t, err)

	pending, err := svc.ListVendors(ctx, VendorListQuery{Status: string(StatusPending)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending.Total)
	assert.Equal(t, 1, pending.TotalPages)

	all, err := svc.ListVendors(ctx, VendorListQuery{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)
	assert.Equal(t, 2, all.TotalPages)
	assert.Len(t, all.Vendors, 1)
}

func TestRegisterValidators(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterValidators(v))

	assert.NoError(t, v.Var("ABCDE1234F", "pan"))
	assert.Error(t, v.Var("ABCD1234F", "pan"))
	assert.NoError(t, v.Var("27ABCDE1234F1Z5", "gstin"))
	assert.Error(t, v.Var("27ABCDE1234F1X5", "gstin"))
	assert.NoError(t, v.Var("sbin0000123", "ifsc"))
	assert.Error(t, v.Var("SBIN1000123", "ifsc"))
}
