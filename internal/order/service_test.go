package order

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
	if err := db.AutoMigrate(&model.User{}, &model.Station{}, &model.Order{}, &model.Payment{}, &model.Review{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedStation(t *testing.T, db *gorm.DB) *model.Station {
	t.Helper()
	st := &model.Station{
		ID:        uuid.NewString(),
		Name:      "一号快递站",
		Address:   "测试路1号",
		Latitude:  31.0,
		Longitude: 121.0,
		IsActive:  true,
	}
	if err := db.Create(st).Error; err != nil {
		t.Fatalf("seed station: %v", err)
	}
	return st
}

func TestCreateOrderStandardNoCoords(t *testing.T) {
	db := newTestDB(t)
	st := seedStation(t, db)
	svc := NewService(db, nil)

	o, err := svc.CreateOrder(context.Background(), "u-1", CreateOrderInput{
		StationID:       st.ID,
		RecipientName:   "张三",
		RecipientPhone:  "13800000000",
		DeliveryAddress: "宿舍楼 3-201",
		ServiceType:     model.TierStandard,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if o.Status != model.OrderPending || o.PaymentStatus != model.PayUnpaid {
		t.Fatalf("unexpected initial state: %s / %s", o.Status, o.PaymentStatus)
	}
	if o.BasePrice != 8 || o.Distance != 0 || o.DistancePrice != 0 || o.UrgentFee != 0 || o.TotalPrice != 8 {
		t.Fatalf("unexpected pricing: %+v", o)
	}
}

func TestCreateOrderUrgentExpressWithDistance(t *testing.T) {
	db := newTestDB(t)
	st := seedStation(t, db)
	svc := NewService(db, nil)

	lat := st.Latitude + 2.0/111
	lng := st.Longitude
	o, err := svc.CreateOrder(context.Background(), "u-1", CreateOrderInput{
		StationID:       st.ID,
		RecipientName:   "李四",
		RecipientPhone:  "13900000000",
		DeliveryAddress: "图书馆门口",
		DeliveryLat:     &lat,
		DeliveryLng:     &lng,
		ServiceType:     model.TierExpress,
		IsUrgent:        true,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if o.BasePrice != 12 || o.DistancePrice != 0.5 || o.UrgentFee != 3 || o.TotalPrice != 15.5 {
		t.Fatalf("unexpected pricing: base=%v dist=%v urgent=%v total=%v",
			o.BasePrice, o.DistancePrice, o.UrgentFee, o.TotalPrice)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	db := newTestDB(t)
	st := seedStation(t, db)
	svc := NewService(db, nil)

	cases := []CreateOrderInput{
		{RecipientName: "a", RecipientPhone: "b", DeliveryAddress: "c"},                  // 缺站点
		{StationID: st.ID, RecipientPhone: "b", DeliveryAddress: "c"},                    // 缺姓名
		{StationID: st.ID, RecipientName: "a", DeliveryAddress: "c"},                     // 缺电话
		{StationID: st.ID, RecipientName: "a", RecipientPhone: "b"},                      // 缺地址
		{StationID: "no-such", RecipientName: "a", RecipientPhone: "b", DeliveryAddress: "c"}, // 站点不存在
	}
	for i, in := range cases {
		if _, err := svc.CreateOrder(context.Background(), "u-1", in); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestUpdateStatusFollowsStateMachine(t *testing.T) {
	db := newTestDB(t)
	st := seedStation(t, db)
	svc := NewService(db, nil)
	ctx := context.Background()

	o, err := svc.CreateOrder(ctx, "u-1", CreateOrderInput{
		StationID: st.ID, RecipientName: "a", RecipientPhone: "b", DeliveryAddress: "c",
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	// 非法跳转必须失败且不落库
	if _, err := svc.UpdateStatus(ctx, o.ID, "u-1", model.OrderDelivered); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	got, _ := svc.GetOrder(ctx, o.ID, "u-1")
	if got.Status != model.OrderPending {
		t.Fatalf("stored status changed after rejected transition: %s", got.Status)
	}

	// 顺序推进至完成
	for _, next := range []model.OrderStatus{
		model.OrderConfirmed, model.OrderPickingUp, model.OrderInTransit,
		model.OrderDelivered, model.OrderCompleted,
	} {
		if _, err := svc.UpdateStatus(ctx, o.ID, "u-1", next); err != nil {
			t.Fatalf("UpdateStatus(%s): %v", next, err)
		}
	}

	got, _ = svc.GetOrder(ctx, o.ID, "u-1")
	if got.Status != model.OrderCompleted {
		t.Fatalf("expected COMPLETED, got %s", got.Status)
	}
	if got.CompletedAt == nil {
		t.Fatalf("expected completion timestamp")
	}

	// 终态没有出边
	if _, err := svc.UpdateStatus(ctx, o.ID, "u-1", model.OrderPending); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected terminal state to be a sink, got %v", err)
	}
}

func TestCancelOrder(t *testing.T) {
	db := newTestDB(t)
	st := seedStation(t, db)
	svc := NewService(db, nil)
	ctx := context.Background()

	o, _ := svc.CreateOrder(ctx, "u-1", CreateOrderInput{
		StationID: st.ID, RecipientName: "a", RecipientPhone: "b", DeliveryAddress: "c",
	})

	cancelled, err := svc.CancelOrder(ctx, o.ID, "u-1")
	if err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}
	if cancelled.Status != model.OrderCancelled {
		t.Fatalf("expected CANCELLED, got %s", cancelled.Status)
	}

	// 已取消的订单不能再次取消
	if _, err := svc.CancelOrder(ctx, o.ID, "u-1"); !errors.Is(err, ErrCannotCancel) {
		t.Fatalf("expected ErrCannotCancel, got %v", err)
	}
}

func TestCancelOrderAfterPickupRejected(t *testing.T) {
	db := newTestDB(t)
	st := seedStation(t, db)
	svc := NewService(db, nil)
	ctx := context.Background()

	o, _ := svc.CreateOrder(ctx, "u-1", CreateOrderInput{
		StationID: st.ID, RecipientName: "a", RecipientPhone: "b", DeliveryAddress: "c",
	})
	if _, err := svc.UpdateStatus(ctx, o.ID, "u-1", model.OrderConfirmed); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, o.ID, "u-1", model.OrderPickingUp); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	if _, err := svc.CancelOrder(ctx, o.ID, "u-1"); !errors.Is(err, ErrCannotCancel) {
		t.Fatalf("expected ErrCannotCancel after pickup, got %v", err)
	}
}

func TestGetOrderOwnershipScoped(t *testing.T) {
	db := newTestDB(t)
	st := seedStation(t, db)
	svc := NewService(db, nil)
	ctx := context.Background()

	o, _ := svc.CreateOrder(ctx, "u-1", CreateOrderInput{
		StationID: st.ID, RecipientName: "a", RecipientPhone: "b", DeliveryAddress: "c",
	})

	if _, err := svc.GetOrder(ctx, o.ID, "u-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected cross-user access to look like not found, got %v", err)
	}
}

func TestOrderStats(t *testing.T) {
	db := newTestDB(t)
	st := seedStation(t, db)
	svc := NewService(db, nil)
	ctx := context.Background()

	mk := func() *model.Order {
		o, err := svc.CreateOrder(ctx, "u-1", CreateOrderInput{
			StationID: st.ID, RecipientName: "a", RecipientPhone: "b", DeliveryAddress: "c",
		})
		if err != nil {
			t.Fatalf("CreateOrder: %v", err)
		}
		return o
	}

	mk() // 保持 PENDING
	cancelled := mk()
	if _, err := svc.CancelOrder(ctx, cancelled.ID, "u-1"); err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}

	paid := mk()
	if err := db.Model(&model.Order{}).Where("id = ?", paid.ID).
		Update("payment_status", model.PayPaid).Error; err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	stats, err := svc.GetStats(ctx, "u-1")
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.Total != 3 || stats.Pending != 2 || stats.Cancelled != 1 || stats.Completed != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.TotalSpent != 8 {
		t.Fatalf("expected totalSpent 8 (paid orders only), got %v", stats.TotalSpent)
	}
}
