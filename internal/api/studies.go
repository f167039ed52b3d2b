package api

import (
	"log/slog"
	"net/http"
	"strings"

	"studycycle/internal/model"
	"studycycle/internal/pkg/metrics"
	"studycycle/internal/review"

	"github.com/gin-gonic/gin"
)

// createStudyRequest 创建学习记录的请求参数。日期由服务端取当天，
// 不接受客户端指定。
type createStudyRequest struct {
	SubjectName    string   `json:"subject_name" binding:"required"`
	Type           string   `json:"type" binding:"required"`
	MinutesTotal   int      `json:"minutes_total" binding:"required,gt=0"`
	QuestionsTotal *int     `json:"questions_total"`
	QuestionsRight *int     `json:"questions_right"`
	SleepHours     *float64 `json:"sleep_hours"`
	Exercise       *bool    `json:"exercise"`
	Caffeine       *bool    `json:"caffeine"`
	Mood           *string  `json:"mood"`
	Notes          *string  `json:"notes"`
}

// updateStudyRequest 部分更新学习记录，nil 字段不修改。
// 日期可改，改日期会触发待复习重排。
type updateStudyRequest struct {
	Date           *model.Date `json:"date"`
	SubjectName    *string     `json:"subject_name"`
	Type           *string     `json:"type"`
	MinutesTotal   *int        `json:"minutes_total"`
	QuestionsTotal *int        `json:"questions_total"`
	QuestionsRight *int        `json:"questions_right"`
	SleepHours     *float64    `json:"sleep_hours"`
	Exercise       *bool       `json:"exercise"`
	Caffeine       *bool       `json:"caffeine"`
	Mood           *string     `json:"mood"`
	Notes          *string     `json:"notes"`
}

// handleListStudies 返回用户的学习记录，按日期倒序。
//
// GET /api/studies
func (s *Server) handleListStudies(c *gin.Context) {
	userID := getUserID(c)

	var sessions []model.StudySession
	if err := s.db.Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&sessions).Error; err != nil {
		s.logger.Error("list studies failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list studies failed"})
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// handleCreateStudy 创建学习记录，同时生成全套复习检查点。
//
// POST /api/studies
func (s *Server) handleCreateStudy(c *gin.Context) {
	var req createStudyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := getUserID(c)

	session := model.StudySession{
		UserID:         userID,
		Date:           model.Today(),
		SubjectName:    strings.TrimSpace(req.SubjectName),
		Type:           req.Type,
		MinutesTotal:   req.MinutesTotal,
		QuestionsTotal: req.QuestionsTotal,
		QuestionsRight: req.QuestionsRight,
		SleepHours:     req.SleepHours,
		Exercise:       req.Exercise,
		Caffeine:       req.Caffeine,
		Mood:           req.Mood,
		Notes:          req.Notes,
	}
	if session.SubjectName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject_name is required"})
		return
	}

	if err := s.studies.CreateSession(c.Request.Context(), &session); err != nil {
		s.writeError(c, err, "create study failed")
		return
	}

	metrics.SessionCreatedTotal.Inc()
	metrics.ReviewGeneratedTotal.Add(float64(len(review.Intervals)))

	c.JSON(http.StatusCreated, session)
}

// handleUpdateStudy 部分更新学习记录。
//
// PUT /api/studies/:id
func (s *Server) handleUpdateStudy(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req updateStudyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := getUserID(c)

	patch := review.SessionPatch{
		Date:           req.Date,
		SubjectName:    req.SubjectName,
		Type:           req.Type,
		MinutesTotal:   req.MinutesTotal,
		QuestionsTotal: req.QuestionsTotal,
		QuestionsRight: req.QuestionsRight,
		SleepHours:     req.SleepHours,
		Exercise:       req.Exercise,
		Caffeine:       req.Caffeine,
		Mood:           req.Mood,
		Notes:          req.Notes,
	}

	session, err := s.studies.UpdateSession(c.Request.Context(), userID, id, patch)
	if err != nil {
		s.writeError(c, err, "update study failed")
		return
	}
	c.JSON(http.StatusOK, session)
}

// handleDeleteStudy 删除学习记录及其全部复习。
//
// DELETE /api/studies/:id
func (s *Server) handleDeleteStudy(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	userID := getUserID(c)

	if err := s.studies.DeleteSession(c.Request.Context(), userID, id); err != nil {
		s.writeError(c, err, "delete study failed")
		return
	}
	c.Status(http.StatusNoContent)
}
