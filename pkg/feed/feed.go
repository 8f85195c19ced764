package feed

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ==================== Feed 文档结构 ====================

// Document 供应商价目表（YAML feed）的顶层结构
// 对应三个集合：shop（店铺描述）、categories（类别）、goods（商品报价）
type Document struct {
	Shop       ShopInfo   `yaml:"shop" json:"shop"`
	Categories []Category `yaml:"categories" json:"categories"`
	Goods      []Good     `yaml:"goods" json:"goods"`
}

// ShopInfo 店铺描述
type ShopInfo struct {
	Name   string `yaml:"name" json:"name"`
	URL    string `yaml:"url" json:"url"`
	Status bool   `yaml:"status" json:"status"`
}

// Category 类别，ID 由供应商指定（不是自增）
type Category struct {
	ID   int64  `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Good 一条商品报价
// Parameters 的取值在 YAML 里可能是字符串也可能是数字，统一按 any 接收，
// 入库前由调用方转成字符串
type Good struct {
	Name       string         `yaml:"name" json:"name"`
	Category   int64          `yaml:"category" json:"category"`
	Model      string         `yaml:"model" json:"model"`
	Price      int64          `yaml:"price" json:"price"`
	PriceRRC   int64          `yaml:"price_rrc" json:"price_rrc"`
	Quantity   int            `yaml:"quantity" json:"quantity"`
	Parameters map[string]any `yaml:"parameters" json:"parameters"`
}

// ==================== 解析与校验 ====================

// Parse 解析 YAML feed 并做结构校验
// 任何一条记录不合法都整体失败，不做局部跳过
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("feed 解析失败: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate 结构校验：必填字段 + 商品的类别引用必须在 categories 里
func (d *Document) Validate() error {
	if d.Shop.Name == "" {
		return fmt.Errorf("feed 校验失败: shop.name 不能为空")
	}
	known := make(map[int64]bool, len(d.Categories))
	for i, c := range d.Categories {
		if c.ID <= 0 {
			return fmt.Errorf("feed 校验失败: categories[%d].id 非法", i)
		}
		if c.Name == "" {
			return fmt.Errorf("feed 校验失败: categories[%d].name 不能为空", i)
		}
		known[c.ID] = true
	}
	for i, g := range d.Goods {
		if g.Name == "" {
			return fmt.Errorf("feed 校验失败: goods[%d].name 不能为空", i)
		}
		if !known[g.Category] {
			return fmt.Errorf("feed 校验失败: goods[%d] 引用了未声明的类别 %d", i, g.Category)
		}
		if g.Price < 0 || g.PriceRRC < 0 {
			return fmt.Errorf("feed 校验失败: goods[%d] 价格为负", i)
		}
		if g.Quantity < 0 {
			return fmt.Errorf("feed 校验失败: goods[%d] 数量为负", i)
		}
	}
	return nil
}
