package rotation

import (
	"studycycle/internal/model"
)

// State 表示当天科目计算的结果状态。
type State int

const (
	// Active 周期已开始且有科目，返回当天科目。
	Active State = iota
	// NotStarted 周期起始日期在今天之后。
	NotStarted
	// NoSubjects 周期没有配置任何科目。
	NoSubjects
)

// SubjectOfDay 计算周期在 today 这一天轮到的科目。
//
// 纯函数：结果只由 (today, start, subjects) 决定，不依赖任何存储的
// “当前位置”。从起始日起每天顺延一个科目，到末尾后回绕，
// 因此每个科目严格每 N 天重复一次，与中间是否有日历间隔无关。
func SubjectOfDay(today, start model.Date, subjects []string) (string, State) {
	if len(subjects) == 0 {
		return "", NoSubjects
	}
	days := today.DaysSince(start)
	if days < 0 {
		return "", NotStarted
	}
	return subjects[days%len(subjects)], Active
}
