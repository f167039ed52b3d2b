package analytics

import (
	"math"

	"studycycle/internal/model"
)

// Stats 一组学习记录的汇总统计。
type Stats struct {
	TotalMinutes   int     `json:"total_minutes"`
	TotalQuestions int     `json:"total_questions"`
	TotalCorrect   int     `json:"total_correct"`
	Accuracy       float64 `json:"accuracy"`
}

// Qualifies 判断一条记录是否计入正确率统计。
//
// 只有同时报告了正的做题总数和做对题数的记录才参与，
// 不满足的记录完全排除，而不是按 0 计入。
func Qualifies(s model.StudySession) bool {
	return s.QuestionsTotal != nil && *s.QuestionsTotal > 0 && s.QuestionsRight != nil
}

// Summarize 汇总总时长与正确率。
//
// 正确率 = 100 * 总做对 / 总做题，保留两位小数；
// 没有任何合格记录时为 0（避免除零）。
func Summarize(sessions []model.StudySession) Stats {
	var stats Stats
	for _, s := range sessions {
		stats.TotalMinutes += s.MinutesTotal
		if !Qualifies(s) {
			continue
		}
		stats.TotalQuestions += *s.QuestionsTotal
		stats.TotalCorrect += *s.QuestionsRight
	}
	if stats.TotalQuestions > 0 {
		stats.Accuracy = round2(100 * float64(stats.TotalCorrect) / float64(stats.TotalQuestions))
	}
	return stats
}

// CountQualifying 统计合格记录条数。
func CountQualifying(sessions []model.StudySession) int {
	n := 0
	for _, s := range sessions {
		if Qualifies(s) {
			n++
		}
	}
	return n
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
