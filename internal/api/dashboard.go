package api

import (
	"errors"
	"log/slog"
	"net/http"

	"studycycle/internal/analytics"
	"studycycle/internal/model"
	"studycycle/internal/rotation"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// 首页没有可用科目时返回的占位提示。
const (
	msgNoCycle      = "Create a study cycle"
	msgNoSubjects   = "Add subjects to your cycle"
	msgCycleFuture  = "Cycle starts in the future"
	recentSessionsN = 5
)

// dashboardResponse 首页聚合数据。
type dashboardResponse struct {
	TodaySubject   string               `json:"today_subject"`
	CycleName      string               `json:"cycle_name"`
	DueReviews     []model.Review       `json:"due_reviews"`
	RecentSessions []model.StudySession `json:"recent_sessions"`
}

// handleDashboard 返回首页聚合：当天科目、到期复习、最近学习记录。
//
// 当天科目由最新周期（id 最大）的起始日期和科目序列纯计算得出；
// 没有周期、周期无科目、周期未开始时分别返回对应的提示文案。
//
// GET /api/dashboard
func (s *Server) handleDashboard(c *gin.Context) {
	userID := getUserID(c)
	today := model.Today()

	resp := dashboardResponse{
		TodaySubject:   msgNoCycle,
		DueReviews:     []model.Review{},
		RecentSessions: []model.StudySession{},
	}

	var cycle model.Cycle
	err := s.db.Where("user_id = ?", userID).Order("id DESC").First(&cycle).Error
	switch {
	case err == nil:
		resp.CycleName = cycle.Name
		subjects, loadErr := s.loadSubjectNames(cycle.ID)
		if loadErr != nil {
			s.logger.Error("load cycle subjects failed", slog.String("error", loadErr.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "dashboard failed"})
			return
		}
		subject, state := rotation.SubjectOfDay(today, cycle.StartDate, subjects)
		switch state {
		case rotation.Active:
			resp.TodaySubject = subject
		case rotation.NoSubjects:
			resp.TodaySubject = msgNoSubjects
		case rotation.NotStarted:
			resp.TodaySubject = msgCycleFuture
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// 没有周期时保留占位提示
	default:
		s.logger.Error("load cycle failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "dashboard failed"})
		return
	}

	if err := s.db.Where("user_id = ? AND status = ? AND due_date <= ?", userID, model.ReviewStatusPending, today).
		Order("due_date ASC, id ASC").
		Find(&resp.DueReviews).Error; err != nil {
		s.logger.Error("load due reviews failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "dashboard failed"})
		return
	}

	if err := s.db.Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Limit(recentSessionsN).
		Find(&resp.RecentSessions).Error; err != nil {
		s.logger.Error("load recent sessions failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "dashboard failed"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// subjectDetailResponse 单科目视图：历史记录、复习与汇总统计。
type subjectDetailResponse struct {
	Sessions []model.StudySession `json:"sessions"`
	Reviews  []model.Review       `json:"reviews"`
	Stats    analytics.Stats      `json:"stats"`
}

// handleSubjectDetail 返回某个科目的全部记录、复习和统计。
//
// 科目名按字面精确匹配，没有记录时返回空集合而不是 404。
//
// GET /api/subject/:name
func (s *Server) handleSubjectDetail(c *gin.Context) {
	userID := getUserID(c)
	name := c.Param("name")

	resp := subjectDetailResponse{
		Sessions: []model.StudySession{},
		Reviews:  []model.Review{},
	}

	if err := s.db.Where("user_id = ? AND subject_name = ?", userID, name).
		Order("date DESC, id DESC").
		Find(&resp.Sessions).Error; err != nil {
		s.logger.Error("load subject sessions failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "subject detail failed"})
		return
	}
	if err := s.db.Where("user_id = ? AND subject_name = ?", userID, name).
		Order("due_date ASC, id ASC").
		Find(&resp.Reviews).Error; err != nil {
		s.logger.Error("load subject reviews failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "subject detail failed"})
		return
	}
	resp.Stats = analytics.Summarize(resp.Sessions)

	c.JSON(http.StatusOK, resp)
}

// handleListSubjects 返回用户学习记录里出现过的科目名（去重）。
//
// GET /api/subjects
func (s *Server) handleListSubjects(c *gin.Context) {
	userID := getUserID(c)

	var names []string
	if err := s.db.Model(&model.StudySession{}).
		Where("user_id = ?", userID).
		Distinct().
		Order("subject_name ASC").
		Pluck("subject_name", &names).Error; err != nil {
		s.logger.Error("list subjects failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list subjects failed"})
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"subjects": names})
}

// analyticsSummaryResponse 近 30 天汇总指标。
type analyticsSummaryResponse struct {
	TotalMinutes30Days int     `json:"total_minutes_30_days"`
	AccuracyRate       float64 `json:"accuracy_rate"`
	StudyStreak        int     `json:"study_streak"`
	SessionsCount      int     `json:"sessions_count"`
}

// handleAnalyticsSummary 返回最近 30 天的学习总时长、正确率与合格记录数。
//
// GET /api/analytics/summary
func (s *Server) handleAnalyticsSummary(c *gin.Context) {
	userID := getUserID(c)
	since := model.Today().AddDays(-30)

	var sessions []model.StudySession
	if err := s.db.Where("user_id = ? AND date >= ?", userID, since).
		Find(&sessions).Error; err != nil {
		s.logger.Error("analytics summary failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analytics summary failed"})
		return
	}

	stats := analytics.Summarize(sessions)
	c.JSON(http.StatusOK, analyticsSummaryResponse{
		TotalMinutes30Days: stats.TotalMinutes,
		AccuracyRate:       stats.Accuracy,
		StudyStreak:        0, // 连续学习天数尚未实现，前端先展示 0
		SessionsCount:      analytics.CountQualifying(sessions),
	})
}
