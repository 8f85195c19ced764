package model

// ==================== Shop 店铺 ====================

// Shop 供应商店铺
// Status 表示是否接受订单；URL 是价目表（feed）来源地址，可为空
type Shop struct {
	BaseModel
	Name   string `gorm:"size:100;not null" json:"name"`
	URL    string `gorm:"size:255" json:"url"`
	Status bool   `gorm:"default:true" json:"status"`

	// 店铺归属用户，1:1，可为空（导入的店铺可能尚未绑定账号）
	UserID *int64 `gorm:"uniqueIndex" json:"user_id"`
	User   *User  `gorm:"foreignKey:UserID" json:"-"`

	Categories []Category `gorm:"many2many:shop_categories;" json:"categories,omitempty"`
}

func (Shop) TableName() string { return "shops" }

// ==================== Category 商品类别 ====================

// Category 商品类别
// ID 由价目表提供（不是自增），同一类别可被多个店铺共享
type Category struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`

	Shops    []Shop    `gorm:"many2many:shop_categories;" json:"-"`
	Products []Product `gorm:"foreignKey:CategoryID" json:"-"`
}

func (Category) TableName() string { return "categories" }
