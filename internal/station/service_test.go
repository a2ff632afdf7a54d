package station

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
	if err := db.AutoMigrate(&model.Station{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func ptr[T any](v T) *T { return &v }

func TestCreateStationValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	cases := []CreateInput{
		{Address: "a", Latitude: ptr(31.0), Longitude: ptr(121.0)},  // 缺名称
		{Name: "n", Latitude: ptr(31.0), Longitude: ptr(121.0)},     // 缺地址
		{Name: "n", Address: "a", Longitude: ptr(121.0)},            // 缺纬度
		{Name: "n", Address: "a", Latitude: ptr(31.0)},              // 缺经度
	}
	for i, in := range cases {
		if _, err := svc.Create(ctx, in); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}

	st, err := svc.Create(ctx, CreateInput{
		Name: "东门驿站", Address: "东门", Latitude: ptr(31.0), Longitude: ptr(121.0),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !st.IsActive {
		t.Fatalf("expected new station to be active")
	}
	// 经纬度允许为 0（赤道/本初子午线是合法坐标）
	if _, err := svc.Create(ctx, CreateInput{
		Name: "零点站", Address: "原点", Latitude: ptr(0.0), Longitude: ptr(0.0),
	}); err != nil {
		t.Fatalf("Create with zero coords: %v", err)
	}
}

func TestListOnlyActiveStations(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	active, _ := svc.Create(ctx, CreateInput{
		Name: "在营", Address: "a", Latitude: ptr(31.0), Longitude: ptr(121.0),
	})
	disabled, _ := svc.Create(ctx, CreateInput{
		Name: "停用", Address: "b", Latitude: ptr(31.0), Longitude: ptr(121.0),
	})
	if _, err := svc.Update(ctx, disabled.ID, UpdateInput{IsActive: ptr(false)}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	stations, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(stations) != 1 || stations[0].ID != active.ID {
		t.Fatalf("expected only active station, got %d", len(stations))
	}

	// 停用的站点详情仍可查
	got, err := svc.Get(ctx, disabled.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.IsActive {
		t.Fatalf("expected station to be disabled")
	}
}

func TestUpdateStationPartial(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	st, _ := svc.Create(ctx, CreateInput{
		Name: "东门驿站", Address: "东门", Latitude: ptr(31.0), Longitude: ptr(121.0),
		Phone: "021-12345678",
	})

	updated, err := svc.Update(ctx, st.ID, UpdateInput{Name: ptr("东门驿站（新）")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "东门驿站（新）" || updated.Address != "东门" || updated.Phone != "021-12345678" {
		t.Fatalf("partial update broke other fields: %+v", updated)
	}

	if _, err := svc.Update(ctx, "no-such", UpdateInput{Name: ptr("x")}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteStation(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	st, _ := svc.Create(ctx, CreateInput{
		Name: "n", Address: "a", Latitude: ptr(31.0), Longitude: ptr(121.0),
	})
	if err := svc.Delete(ctx, st.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, st.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := svc.Get(ctx, st.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
