package model

// ==================== 用户角色常量 ====================

// 系统角色：shop (供应商/店铺), buyer (采购方)
// 角色只在这里定义，handler 层统一用常量比较，不散落字符串
const (
	RoleShop  = "shop"
	RoleBuyer = "buyer"
)

// ==================== User 用户 ====================

// User 系统用户，邮箱作为登录标识
type User struct {
	BaseModel
	Email     string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Username  string `gorm:"size:100" json:"username"`
	FirstName string `gorm:"size:100" json:"first_name"`
	LastName  string `gorm:"size:100" json:"last_name"`

	// 哈希密码，永不下发
	Password string `gorm:"size:255;not null" json:"-"`

	Role string `gorm:"size:10;default:'buyer'" json:"role"`

	// 邮箱激活前为 false
	IsActive bool `gorm:"default:false" json:"is_active"`

	// 激活/重置令牌（uuid），激活后清空
	ActivationToken string `gorm:"size:64" json:"-"`
	ResetToken      string `gorm:"size:64" json:"-"`

	Contacts []Contact `gorm:"foreignKey:UserID" json:"contacts,omitempty"`
}

func (User) TableName() string { return "users" }

// ==================== Contact 用户联系方式 ====================

// Contact 收货联系方式（地址 + 电话）
type Contact struct {
	BaseModel
	UserID    int64  `gorm:"index;not null" json:"user_id"`
	City      string `gorm:"size:50" json:"city"`
	Street    string `gorm:"size:100" json:"street"`
	House     string `gorm:"size:15" json:"house"`
	Structure string `gorm:"size:15" json:"structure"`
	Building  string `gorm:"size:15" json:"building"`
	Apartment string `gorm:"size:15" json:"apartment"`
	Phone     string `gorm:"size:20" json:"phone"`
}

func (Contact) TableName() string { return "contacts" }
