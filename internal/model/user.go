package model

import "time"

// User 表示系统用户。
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`                       // 用户 ID
	Email        string    `gorm:"type:varchar(191);uniqueIndex" json:"email"` // 邮箱（唯一）
	PasswordHash string    `gorm:"not null" json:"-"`                          // bcrypt 哈希，绝不外泄
	CreatedAt    time.Time `json:"created_at"`                                 // 创建时间

	Cycles        []Cycle        `gorm:"foreignKey:UserID" json:"-"`
	StudySessions []StudySession `gorm:"foreignKey:UserID" json:"-"`
	Reviews       []Review       `gorm:"foreignKey:UserID" json:"-"`
}
