package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"studycycle/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// cycleRequest 创建/更新周期的请求参数。科目列表整体替换。
type cycleRequest struct {
	Name      string     `json:"name" binding:"required"`
	StartDate model.Date `json:"start_date" binding:"required"`
	Subjects  []string   `json:"subjects"`
}

// cycleResponse 返回的周期结构，科目按 position 排序展开为名称列表。
type cycleResponse struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	StartDate model.Date `json:"start_date"`
	Subjects  []string   `json:"subjects"`
}

// handleListCycles 返回用户的全部周期及其科目。
//
// GET /api/cycles
func (s *Server) handleListCycles(c *gin.Context) {
	userID := getUserID(c)

	var cycles []model.Cycle
	if err := s.db.Where("user_id = ?", userID).Order("id ASC").Find(&cycles).Error; err != nil {
		s.logger.Error("list cycles failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list cycles failed"})
		return
	}

	resp := make([]cycleResponse, 0, len(cycles))
	for _, cycle := range cycles {
		subjects, err := s.loadSubjectNames(cycle.ID)
		if err != nil {
			s.logger.Error("load cycle subjects failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load cycle subjects failed"})
			return
		}
		resp = append(resp, cycleResponse{
			ID:        cycle.ID,
			Name:      cycle.Name,
			StartDate: cycle.StartDate,
			Subjects:  subjects,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// handleCreateCycle 创建周期及其科目序列（一个事务内完成）。
//
// POST /api/cycles
func (s *Server) handleCreateCycle(c *gin.Context) {
	var req cycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := getUserID(c)

	cycle := model.Cycle{
		UserID:    userID,
		Name:      strings.TrimSpace(req.Name),
		StartDate: req.StartDate,
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transaction failed"})
		return
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&cycle).Error; err != nil {
		tx.Rollback()
		s.logger.Error("create cycle failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create cycle failed"})
		return
	}
	if err := insertSubjects(tx, cycle.ID, req.Subjects); err != nil {
		tx.Rollback()
		s.logger.Error("create cycle subjects failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create cycle failed"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "commit failed"})
		return
	}

	c.JSON(http.StatusCreated, cycleResponse{
		ID:        cycle.ID,
		Name:      cycle.Name,
		StartDate: cycle.StartDate,
		Subjects:  normalizeSubjects(req.Subjects),
	})
}

// handleUpdateCycle 更新周期并整体重写科目序列。
//
// PUT /api/cycles/:id
func (s *Server) handleUpdateCycle(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req cycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := getUserID(c)

	tx := s.db.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transaction failed"})
		return
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var cycle model.Cycle
	if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&cycle).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "cycle not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query cycle failed"})
		return
	}

	cycle.Name = strings.TrimSpace(req.Name)
	cycle.StartDate = req.StartDate
	if err := tx.Save(&cycle).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update cycle failed"})
		return
	}

	// 科目序列整体重写：先删后插，位置重新从 0 编号
	if err := tx.Where("cycle_id = ?", cycle.ID).Delete(&model.CycleSubject{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "replace subjects failed"})
		return
	}
	if err := insertSubjects(tx, cycle.ID, req.Subjects); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "replace subjects failed"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "commit failed"})
		return
	}

	c.JSON(http.StatusOK, cycleResponse{
		ID:        cycle.ID,
		Name:      cycle.Name,
		StartDate: cycle.StartDate,
		Subjects:  normalizeSubjects(req.Subjects),
	})
}

// handleDeleteCycle 删除周期及其全部科目。
//
// DELETE /api/cycles/:id
func (s *Server) handleDeleteCycle(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	userID := getUserID(c)

	tx := s.db.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transaction failed"})
		return
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var cycle model.Cycle
	if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&cycle).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "cycle not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query cycle failed"})
		return
	}

	if err := tx.Where("cycle_id = ?", cycle.ID).Delete(&model.CycleSubject{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete subjects failed"})
		return
	}
	if err := tx.Delete(&cycle).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete cycle failed"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "commit failed"})
		return
	}

	c.Status(http.StatusNoContent)
}

// loadSubjectNames 按 position 顺序加载周期的科目名称。
func (s *Server) loadSubjectNames(cycleID uint) ([]string, error) {
	var names []string
	err := s.db.Model(&model.CycleSubject{}).
		Where("cycle_id = ?", cycleID).
		Order("position ASC").
		Pluck("name", &names).Error
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func insertSubjects(tx *gorm.DB, cycleID uint, subjects []string) error {
	names := normalizeSubjects(subjects)
	if len(names) == 0 {
		return nil
	}
	rows := make([]model.CycleSubject, 0, len(names))
	for i, name := range names {
		rows = append(rows, model.CycleSubject{
			CycleID:  cycleID,
			Name:     name,
			Position: i,
		})
	}
	return tx.Create(&rows).Error
}

// normalizeSubjects 去掉空白科目名，保持顺序。
func normalizeSubjects(subjects []string) []string {
	names := make([]string, 0, len(subjects))
	for _, raw := range subjects {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}
