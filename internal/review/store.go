package review

import (
	"context"
	"errors"
	"time"

	"studycycle/internal/model"
	"studycycle/internal/pkg/apperr"

	"gorm.io/gorm"
)

// Store 负责学习记录及其复习检查点的联动读写。
//
// 所有多行变更（记录 + 复习）都在同一个事务里完成，
// 中途失败整体回滚，不会留下孤儿复习。
type Store struct {
	db *gorm.DB
}

// NewStore 创建 Store。
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// SessionPatch 学习记录的部分更新。nil 字段表示不修改。
type SessionPatch struct {
	Date           *model.Date
	SubjectName    *string
	Type           *string
	MinutesTotal   *int
	QuestionsTotal *int
	QuestionsRight *int
	SleepHours     *float64
	Exercise       *bool
	Caffeine       *bool
	Mood           *string
	Notes          *string
}

// CreateSession 创建学习记录并生成全部复习检查点。
func (s *Store) CreateSession(ctx context.Context, session *model.StudySession) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := tx.Create(session).Error; err != nil {
		tx.Rollback()
		return err
	}
	reviews := BuildReviews(session)
	if err := tx.Create(&reviews).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// UpdateSession 更新学习记录。
//
// 日期发生变化时，删除该记录名下仍为 pending 的复习并按新日期重新
// 生成一组；已完成的复习作为历史保留。只改其他字段时复习不动。
func (s *Store) UpdateSession(ctx context.Context, userID, sessionID uint, patch SessionPatch) (*model.StudySession, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	var session model.StudySession
	if err := tx.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "study session not found")
		}
		return nil, err
	}

	dateChanged := patch.Date != nil && !patch.Date.Equal(session.Date)
	applyPatch(&session, patch)

	if err := tx.Save(&session).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if dateChanged {
		if err := tx.Where("origin_session_id = ? AND status = ?", session.ID, model.ReviewStatusPending).
			Delete(&model.Review{}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		reviews := BuildReviews(&session)
		if err := tx.Create(&reviews).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteSession 删除学习记录及其全部复习（无论是否完成）。
func (s *Store) DeleteSession(ctx context.Context, userID, sessionID uint) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	var session model.StudySession
	if err := tx.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.KindNotFound, "study session not found")
		}
		return err
	}

	if err := tx.Where("origin_session_id = ?", session.ID).Delete(&model.Review{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&session).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// Complete 将复习标记为已完成并记录完成时间。重复调用只会刷新时间戳。
func (s *Store) Complete(ctx context.Context, userID, reviewID uint) (*model.Review, error) {
	return s.setStatus(ctx, userID, reviewID, model.ReviewStatusDone)
}

// Undo 将复习恢复为 pending 并清除完成时间。对 pending 复习调用无副作用。
func (s *Store) Undo(ctx context.Context, userID, reviewID uint) (*model.Review, error) {
	return s.setStatus(ctx, userID, reviewID, model.ReviewStatusPending)
}

func (s *Store) setStatus(ctx context.Context, userID, reviewID uint, status string) (*model.Review, error) {
	var rv model.Review
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", reviewID, userID).First(&rv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "review not found")
		}
		return nil, err
	}

	rv.Status = status
	if status == model.ReviewStatusDone {
		now := time.Now().UTC()
		rv.DoneAt = &now
	} else {
		rv.DoneAt = nil
	}

	if err := s.db.WithContext(ctx).Save(&rv).Error; err != nil {
		return nil, err
	}
	return &rv, nil
}

func applyPatch(session *model.StudySession, patch SessionPatch) {
	if patch.Date != nil {
		session.Date = *patch.Date
	}
	if patch.SubjectName != nil {
		session.SubjectName = *patch.SubjectName
	}
	if patch.Type != nil {
		session.Type = *patch.Type
	}
	if patch.MinutesTotal != nil {
		session.MinutesTotal = *patch.MinutesTotal
	}
	if patch.QuestionsTotal != nil {
		session.QuestionsTotal = patch.QuestionsTotal
	}
	if patch.QuestionsRight != nil {
		session.QuestionsRight = patch.QuestionsRight
	}
	if patch.SleepHours != nil {
		session.SleepHours = patch.SleepHours
	}
	if patch.Exercise != nil {
		session.Exercise = patch.Exercise
	}
	if patch.Caffeine != nil {
		session.Caffeine = patch.Caffeine
	}
	if patch.Mood != nil {
		session.Mood = patch.Mood
	}
	if patch.Notes != nil {
		session.Notes = patch.Notes
	}
}
