package errorx

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误类别
type Kind int

const (
	KindStorage Kind = iota
	KindValidation
	KindNotFound
	KindStateConflict
	KindInsufficientStock
	KindPaymentConflict
)

// 业务响应码（与 HTTP 状态码区分，便于调用方区分同为 400 的校验错误与库存不足）
const (
	CodeValidation        = 40001
	CodeInsufficientStock = 40002
	CodeNotFound          = 40400
	CodeStateConflict     = 40900
	CodePaymentConflict   = 40901
	CodeStorage           = 50000
)

// 定义业务错误
var (
	ErrOrderNotFound           = NotFound("order not found")
	ErrSkuNotFound             = NotFound("sku not found")
	ErrDistributionNotFound    = NotFound("distribution record not found")
	ErrCartEmpty               = NotFound("cart empty or items not found")
	ErrInsufficientStock       = InsufficientStock("insufficient stock")
	ErrOrderStateConflict      = Conflict("order status does not allow this operation")
	ErrOrderAlreadyPaid        = PaymentConflict("order already paid, cannot cancel")
	ErrStatusNotAllowed        = Validation("status not allowed")
	ErrInvalidClientOrderNo    = Validation("client_order_no is required and must be at most 64 characters")
	ErrDistributionSkuMismatch = Validation("distribution record does not belong to sku")
)

// BusinessError 业务错误结构
type BusinessError struct {
	Kind    Kind
	Code    int
	Message string
	Details []ErrorDetail
	Err     error
}

// ErrorDetail 错误详情
type ErrorDetail struct {
	Path string
	Info string
}

// Error 实现 error 接口
func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap 暴露底层错误
func (e *BusinessError) Unwrap() error {
	return e.Err
}

// Is 同类别同消息视为同一错误，使 errors.Is 可匹配哨兵错误
func (e *BusinessError) Is(target error) bool {
	t, ok := target.(*BusinessError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// WithDetail 追加错误详情，返回副本
func (e *BusinessError) WithDetail(path, info string) *BusinessError {
	cp := *e
	cp.Details = append(append([]ErrorDetail(nil), e.Details...), ErrorDetail{Path: path, Info: info})
	return &cp
}

// NewBusinessError 创建业务错误
func NewBusinessError(kind Kind, code int, message string) *BusinessError {
	return &BusinessError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

func Validation(message string) *BusinessError {
	return NewBusinessError(KindValidation, CodeValidation, message)
}

func NotFound(message string) *BusinessError {
	return NewBusinessError(KindNotFound, CodeNotFound, message)
}

func Conflict(message string) *BusinessError {
	return NewBusinessError(KindStateConflict, CodeStateConflict, message)
}

func InsufficientStock(message string) *BusinessError {
	return NewBusinessError(KindInsufficientStock, CodeInsufficientStock, message)
}

func PaymentConflict(message string) *BusinessError {
	return NewBusinessError(KindPaymentConflict, CodePaymentConflict, message)
}

// Storage 包装数据库等非预期错误；已是业务错误时原样返回
func Storage(err error) error {
	if err == nil {
		return nil
	}
	var be *BusinessError
	if errors.As(err, &be) {
		return err
	}
	return &BusinessError{
		Kind:    KindStorage,
		Code:    CodeStorage,
		Message: "storage error",
		Err:     err,
	}
}

// KindOf 解析错误类别，非业务错误一律视为存储错误
func KindOf(err error) Kind {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindStorage
}

// HTTPStatus 错误类别对应的 HTTP 状态码
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation, KindInsufficientStock:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindStateConflict, KindPaymentConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
