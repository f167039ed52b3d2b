package scheduler

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"studycycle/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.Review{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestCountDue_OnlyPastDuePending(t *testing.T) {
	db := newTestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewScheduler(db, logger, time.Minute)

	today := model.NewDate(2026, 3, 10)
	origin := today.AddDays(-7)

	reviews := []model.Review{
		// 已到期、待办：计入
		{UserID: 1, SubjectName: "Math", OriginDate: origin, DueDate: today.AddDays(-1), Status: model.ReviewStatusPending},
		// 今天到期、待办：计入
		{UserID: 2, SubjectName: "Law", OriginDate: origin, DueDate: today, Status: model.ReviewStatusPending},
		// 未来到期：不计入
		{UserID: 1, SubjectName: "Math", OriginDate: origin, DueDate: today.AddDays(3), Status: model.ReviewStatusPending},
		// 已完成：不计入
		{UserID: 1, SubjectName: "Math", OriginDate: origin, DueDate: today.AddDays(-2), Status: model.ReviewStatusDone},
	}
	if err := db.Create(&reviews).Error; err != nil {
		t.Fatalf("seed reviews: %v", err)
	}

	n, err := s.CountDue(context.Background(), today)
	if err != nil {
		t.Fatalf("count due: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 due reviews, got %d", n)
	}
}

func TestCountDue_EmptyTable(t *testing.T) {
	db := newTestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewScheduler(db, logger, 0)

	n, err := s.CountDue(context.Background(), model.NewDate(2026, 3, 10))
	if err != nil {
		t.Fatalf("count due: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0, got %d", n)
	}
}
