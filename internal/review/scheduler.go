package review

import (
	"studycycle/internal/model"
)

// Intervals 固定的间隔复习策略：学习后第 1、7、21、45、90、180 天各复习一次。
var Intervals = [...]int{1, 7, 21, 45, 90, 180}

// BuildReviews 为一条学习记录生成全部复习检查点。
//
// 科目名与备注按当前值快照冻结，全部为 pending 状态。
func BuildReviews(session *model.StudySession) []model.Review {
	sessionID := session.ID
	var note *string
	if session.Notes != nil {
		n := *session.Notes
		note = &n
	}

	reviews := make([]model.Review, 0, len(Intervals))
	for _, days := range Intervals {
		reviews = append(reviews, model.Review{
			UserID:          session.UserID,
			SubjectName:     session.SubjectName,
			OriginDate:      session.Date,
			OriginNote:      note,
			DueDate:         session.Date.AddDays(days),
			Status:          model.ReviewStatusPending,
			OriginSessionID: &sessionID,
		})
	}
	return reviews
}
