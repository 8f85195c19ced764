package model

// ==================== Product 商品 ====================

// Product 商品（跨店铺的抽象商品，按 名称+类别 去重）
type Product struct {
	BaseModel
	Name       string `gorm:"size:150;not null;uniqueIndex:uniq_product_name_category" json:"name"`
	CategoryID int64  `gorm:"not null;uniqueIndex:uniq_product_name_category" json:"category_id"`

	Category     Category      `gorm:"foreignKey:CategoryID" json:"category"`
	ProductInfos []ProductInfo `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string { return "products" }

// ==================== ProductInfo 店铺报价 ====================

// ProductInfo 某店铺对某商品的一条报价（型号、库存、价格）
// 每次导入整体删除重建，所以任一时刻一个店铺的报价集合 = 最近一次 feed
// 金额以最小货币单位存储（int64，分）
type ProductInfo struct {
	BaseModel
	ProductID int64 `gorm:"index;not null" json:"product_id"`
	ShopID    int64 `gorm:"index;not null" json:"shop_id"`

	// 型号名称（feed 的 model 字段）
	Name     string `gorm:"size:100" json:"name"`
	Quantity int    `gorm:"not null" json:"quantity"`
	Price    int64  `gorm:"not null" json:"price"`
	PriceRRC int64  `gorm:"not null" json:"price_rrc"`

	Product Product `gorm:"foreignKey:ProductID" json:"product"`
	Shop    Shop    `gorm:"foreignKey:ShopID" json:"-"`

	ProductParameters []ProductParameter `gorm:"foreignKey:ProductInfoID;constraint:OnDelete:CASCADE" json:"product_parameters"`
}

func (ProductInfo) TableName() string { return "product_infos" }

// ==================== Parameter 参数 ====================

// Parameter 参数名（如 цвет / диагональ），跨商品共享
type Parameter struct {
	BaseModel
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`
}

func (Parameter) TableName() string { return "parameters" }

// ProductParameter 报价的参数取值
// (product_info, parameter) 组合唯一
type ProductParameter struct {
	BaseModel
	ProductInfoID int64  `gorm:"not null;uniqueIndex:uniq_info_parameter" json:"product_info_id"`
	ParameterID   int64  `gorm:"not null;uniqueIndex:uniq_info_parameter" json:"parameter_id"`
	Value         string `gorm:"size:100" json:"value"`

	Parameter Parameter `gorm:"foreignKey:ParameterID" json:"parameter"`
}

func (ProductParameter) TableName() string { return "product_parameters" }
