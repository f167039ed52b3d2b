package model

import (
	"time"
)

// Review 状态枚举。
const (
	ReviewStatusPending = "pending" // 待复习
	ReviewStatusDone    = "done"    // 已完成
)

// Cycle 表示一个学习周期（按天轮换的科目循环）。
//
// 周期内的科目按 Position 形成连续的 0 基序列，更新时整体重写
// （先删后插，重新编号），保证任何变更后都不会出现空洞。
type Cycle struct {
	ID        uint   `gorm:"primaryKey" json:"id"` // 周期 ID
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	Name      string `gorm:"not null" json:"name"`                 // 周期名称
	StartDate Date   `gorm:"type:date;not null" json:"start_date"` // 起始日期

	Subjects []CycleSubject `gorm:"foreignKey:CycleID" json:"-"`
}

// CycleSubject 表示周期中某个位置上的科目。
//
// 它只属于一个周期，周期删除或科目列表被整体替换时一并删除。
type CycleSubject struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	CycleID  uint   `gorm:"not null;index" json:"cycle_id"`
	Name     string `gorm:"not null" json:"name"`     // 科目名称
	Position int    `gorm:"not null" json:"position"` // 周期内的顺序（0 基，连续无空洞）
}

// StudySession 表示一次学习记录。
//
// SubjectName 是自由文本标签，不与 CycleSubject 建立外键——周期里
// 改名不会影响历史记录。
type StudySession struct {
	ID             uint     `gorm:"primaryKey" json:"id"` // 记录 ID
	UserID         uint     `gorm:"not null;index" json:"user_id"`
	Date           Date     `gorm:"type:date;not null" json:"date"`                      // 学习日期
	SubjectName    string   `gorm:"type:varchar(191);not null" json:"subject_name"`      // 科目名称（自由文本）
	Type           string   `gorm:"not null" json:"type"`                                // 学习类型（如 theory / questions / revision）
	MinutesTotal   int      `gorm:"not null" json:"minutes_total"`                       // 学习时长（分钟）
	QuestionsTotal *int     `json:"questions_total"`                                     // 做题总数（可选）
	QuestionsRight *int     `json:"questions_right"`                                     // 做对题数（可选）
	SleepHours     *float64 `json:"sleep_hours"`                                         // 睡眠时长（可选）
	Exercise       *bool    `json:"exercise"`                                            // 当天是否运动（可选）
	Caffeine       *bool    `json:"caffeine"`                                            // 当天是否摄入咖啡因（可选）
	Mood           *string  `json:"mood"`                                                // 心情（可选）
	Notes          *string  `json:"notes"`                                               // 备注（可选）
}

// Review 表示一次间隔复习检查点。
//
// 它是学习记录的副产物：科目名与备注在生成时快照冻结，
// 之后源记录的改动不会回写到已生成的复习上。
type Review struct {
	ID          uint       `gorm:"primaryKey" json:"id"` // 复习 ID
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	SubjectName string     `gorm:"type:varchar(191);not null" json:"subject_name"`         // 科目名称快照
	OriginDate  Date       `gorm:"type:date;not null" json:"origin_date"`                  // 源学习日期
	OriginNote  *string    `json:"origin_note"`                                            // 源备注快照
	DueDate     Date       `gorm:"type:date;not null;index" json:"due_date"`               // 应复习日期
	Status      string     `gorm:"type:varchar(16);default:pending" json:"status"`         // pending / done
	DoneAt      *time.Time `json:"done_at"`                                                // 完成时间

	OriginSessionID *uint `gorm:"index" json:"origin_session_id"` // 源学习记录 ID（记录删除时复习一并删除）
}
