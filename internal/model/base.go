package model

import (
	"time"
)

// BaseModel 公共字段
// 注意：目录实体依赖硬删除做全量替换，所以这里不带 DeletedAt 软删除字段
type BaseModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
