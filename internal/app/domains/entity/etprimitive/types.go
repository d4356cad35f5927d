package etprimitive

import "github.com/shopspring/decimal"

// Pagination 分页参数
type Pagination struct {
	Page  int
	Limit int
	Total int64
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Normalize 修正非法分页参数
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// Offset 查询偏移量
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

var hundred = decimal.NewFromInt(100)

// ToFen 元转分，四舍五入到整数分
func ToFen(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromFen 分转元，保留两位小数
func FromFen(fen int64) decimal.Decimal {
	return decimal.New(fen, -2)
}
