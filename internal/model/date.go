package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateLayout 日期的 JSON/文本表示格式。
const DateLayout = "2006-01-02"

// Date 表示精确到“天”的日期（数据库 date 列）。
//
// 内部统一归一化为 UTC 零点，避免时区和夏令时影响天数差运算。
// JSON 表示为 "2006-01-02" 字符串。
type Date struct {
	t time.Time
}

// NewDate 构造指定年月日的 Date。
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf 将任意时间截断为 Date（取其所在时区的年月日）。
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// Today 返回本地时区的今天。
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate 解析 "2006-01-02" 格式的日期字符串。
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// AddDays 返回 n 天之后（n 可为负）的日期。
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// DaysSince 返回 d 与 other 之间相差的整数天数（d - other）。
func (d Date) DaysSince(other Date) int {
	return int(d.t.Sub(other.t) / (24 * time.Hour))
}

// Before 判断 d 是否早于 other。
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// After 判断 d 是否晚于 other。
func (d Date) After(other Date) bool { return d.t.After(other.t) }

// Equal 判断两个日期是否为同一天。
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// IsZero 判断是否为零值日期。
func (d Date) IsZero() bool { return d.t.IsZero() }

// Time 返回该日期 UTC 零点对应的 time.Time。
func (d Date) Time() time.Time { return d.t }

func (d Date) String() string {
	return d.t.Format(DateLayout)
}

// MarshalJSON 序列化为 "2006-01-02" 字符串。
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.t.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON 解析 "2006-01-02" 字符串。
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value 实现 driver.Valuer，供 GORM 写库。
func (d Date) Value() (driver.Value, error) {
	return d.t, nil
}

// Scan 实现 sql.Scanner，兼容 date 列的多种驱动返回类型。
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(v)
		return nil
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	default:
		return fmt.Errorf("scan date: unsupported type %T", value)
	}
}

func (d *Date) scanString(s string) error {
	if s == "" {
		*d = Date{}
		return nil
	}
	// sqlite 可能返回完整的时间戳文本
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
