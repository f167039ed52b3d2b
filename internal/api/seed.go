package api

import (
	"context"
	"errors"

	"studycycle/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedDemoData 初始化演示账号及示例周期（幂等）。
//
// 只在开发环境调用，方便前端联调时有现成的数据可看。
func (s *Server) SeedDemoData(ctx context.Context) error {
	const demoEmail = "demo@studycycle.local"

	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", demoEmail).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
		if hashErr != nil {
			return hashErr
		}
		user = model.User{
			Email:        demoEmail,
			PasswordHash: string(hash),
		}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return err
		}
	}

	// 演示周期：已存在则不重复创建
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Cycle{}).
		Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	cycle := model.Cycle{
		UserID:    user.ID,
		Name:      "Demo cycle",
		StartDate: model.Today().AddDays(-3),
	}
	if err := s.db.WithContext(ctx).Create(&cycle).Error; err != nil {
		return err
	}
	subjects := []model.CycleSubject{
		{CycleID: cycle.ID, Name: "Math", Position: 0},
		{CycleID: cycle.ID, Name: "Law", Position: 1},
		{CycleID: cycle.ID, Name: "Portuguese", Position: 2},
	}
	if err := s.db.WithContext(ctx).Create(&subjects).Error; err != nil {
		return err
	}

	// 一条带复习的示例学习记录
	qt, qr := 20, 14
	session := model.StudySession{
		UserID:         user.ID,
		Date:           model.Today().AddDays(-1),
		SubjectName:    "Math",
		Type:           "questions",
		MinutesTotal:   90,
		QuestionsTotal: &qt,
		QuestionsRight: &qr,
	}
	return s.studies.CreateSession(ctx, &session)
}
