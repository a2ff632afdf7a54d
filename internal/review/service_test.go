package review

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/SwiftParcel/SwiftParcel/internal/model"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.Station{}, &model.Order{}, &model.Payment{}, &model.Review{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, userID string, status model.OrderStatus) *model.Order {
	t.Helper()
	st := &model.Station{
		ID: uuid.NewString(), Name: "东门驿站", Address: "东门",
		Latitude: 31.0, Longitude: 121.0, IsActive: true,
	}
	if err := db.Create(st).Error; err != nil {
		t.Fatalf("seed station: %v", err)
	}
	o := &model.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		StationID:       st.ID,
		RecipientName:   "张三",
		RecipientPhone:  "13800000000",
		DeliveryAddress: "宿舍楼",
		ServiceType:     model.TierStandard,
		TotalPrice:      8,
		Status:          status,
		PaymentStatus:   model.PayPaid,
	}
	if err := db.Create(o).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return o
}

func TestCreateReviewRequiresCompletedOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	for _, status := range []model.OrderStatus{
		model.OrderPending, model.OrderConfirmed, model.OrderPickingUp,
		model.OrderInTransit, model.OrderDelivered, model.OrderCancelled,
	} {
		o := seedOrder(t, db, "u-1", status)
		if _, err := svc.Create(ctx, o.ID, "u-1", 5, "很好"); !errors.Is(err, ErrOrderNotFinished) {
			t.Fatalf("status %s: expected ErrOrderNotFinished, got %v", status, err)
		}
	}

	o := seedOrder(t, db, "u-1", model.OrderCompleted)
	r, err := svc.Create(ctx, o.ID, "u-1", 5, "很好")
	if err != nil {
		t.Fatalf("Create on completed order: %v", err)
	}
	if r.Rating != 5 || r.OrderID != o.ID {
		t.Fatalf("unexpected review: %+v", r)
	}
}

func TestCreateReviewOncePerOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	o := seedOrder(t, db, "u-1", model.OrderCompleted)
	if _, err := svc.Create(ctx, o.ID, "u-1", 4, "不错"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, o.ID, "u-1", 5, "再评一次"); !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed, got %v", err)
	}
}

func TestCreateReviewRatingBounds(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	o := seedOrder(t, db, "u-1", model.OrderCompleted)
	for _, rating := range []int{0, -1, 6} {
		if _, err := svc.Create(ctx, o.ID, "u-1", rating, ""); !errors.Is(err, ErrBadRating) {
			t.Fatalf("rating %d: expected ErrBadRating, got %v", rating, err)
		}
	}
}

func TestCreateReviewOwnershipScoped(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	o := seedOrder(t, db, "u-1", model.OrderCompleted)
	if _, err := svc.Create(context.Background(), o.ID, "u-2", 5, ""); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected cross-user create to look like order not found, got %v", err)
	}
}

func TestUpdateAndDeleteReview(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	o := seedOrder(t, db, "u-1", model.OrderCompleted)
	r, err := svc.Create(ctx, o.ID, "u-1", 3, "一般")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	content := "改观了"
	updated, err := svc.Update(ctx, r.ID, "u-1", 5, &content)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Rating != 5 || updated.Content != "改观了" {
		t.Fatalf("update not applied: %+v", updated)
	}

	// 只改内容不改评分
	content2 := "只改内容"
	updated, err = svc.Update(ctx, r.ID, "u-1", 0, &content2)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Rating != 5 || updated.Content != "只改内容" {
		t.Fatalf("partial update broken: %+v", updated)
	}

	if _, err := svc.Update(ctx, r.ID, "u-2", 1, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected cross-user update to fail, got %v", err)
	}

	if err := svc.Delete(ctx, r.ID, "u-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected cross-user delete to fail, got %v", err)
	}
	if err := svc.Delete(ctx, r.ID, "u-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := svc.GetByOrder(ctx, o.ID, "u-1")
	if err != nil {
		t.Fatalf("GetByOrder: %v", err)
	}
	if got != nil {
		t.Fatalf("review still present after delete: %+v", got)
	}
}

func TestReviewStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	for _, rating := range []int{5, 5, 4, 2} {
		o := seedOrder(t, db, "u-1", model.OrderCompleted)
		if _, err := svc.Create(ctx, o.ID, "u-1", rating, ""); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	stats, err := svc.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.Total != 4 {
		t.Fatalf("expected 4 reviews, got %d", stats.Total)
	}
	// (5+5+4+2)/4 = 4.0
	if stats.Average != 4.0 {
		t.Fatalf("expected average 4.0, got %v", stats.Average)
	}
	if stats.Distribution[5] != 2 || stats.Distribution[4] != 1 || stats.Distribution[2] != 1 || stats.Distribution[1] != 0 {
		t.Fatalf("unexpected distribution: %+v", stats.Distribution)
	}
}

func TestReviewStatsEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	stats, err := svc.GetStats(context.Background())
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.Total != 0 || stats.Average != 0 {
		t.Fatalf("unexpected empty stats: %+v", stats)
	}
}
