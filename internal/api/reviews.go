package api

import (
	"log/slog"
	"net/http"

	"studycycle/internal/model"
	"studycycle/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// handleListReviews 返回用户的全部复习检查点，按应复习日期升序。
//
// GET /api/reviews
func (s *Server) handleListReviews(c *gin.Context) {
	userID := getUserID(c)

	var reviews []model.Review
	if err := s.db.Where("user_id = ?", userID).
		Order("due_date ASC, id ASC").
		Find(&reviews).Error; err != nil {
		s.logger.Error("list reviews failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list reviews failed"})
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// handleCompleteReview 将复习标记为已完成。重复调用只刷新完成时间。
//
// POST /api/reviews/:id/complete
func (s *Server) handleCompleteReview(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	userID := getUserID(c)

	rv, err := s.studies.Complete(c.Request.Context(), userID, id)
	if err != nil {
		s.writeError(c, err, "complete review failed")
		return
	}
	metrics.ReviewCompletedTotal.Inc()
	c.JSON(http.StatusOK, rv)
}

// handleUndoReview 将复习恢复为待办状态。
//
// POST /api/reviews/:id/undo
func (s *Server) handleUndoReview(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	userID := getUserID(c)

	rv, err := s.studies.Undo(c.Request.Context(), userID, id)
	if err != nil {
		s.writeError(c, err, "undo review failed")
		return
	}
	c.JSON(http.StatusOK, rv)
}
