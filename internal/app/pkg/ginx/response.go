package ginx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"mall/ordercore/internal/app/pkg/errorx"
)

// Response 统一响应结构
type Response struct {
	Meta Meta        `json:"meta"`
	Data interface{} `json:"data,omitempty"`
}

// Meta 元数据
type Meta struct {
	Code    int           `json:"code" example:"200"`
	Message string        `json:"message" example:"OK"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail 错误详情
type ErrorDetail struct {
	Path string `json:"path" example:"items[0].quantity"`
	Info string `json:"info" example:"quantity must be greater than 0"`
}

// Success 成功响应（200）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Meta: Meta{
			Code:    http.StatusOK,
			Message: "OK",
		},
		Data: data,
	})
}

// Error 错误响应，code 为业务码
func Error(c *gin.Context, httpCode, code int, message string, details []ErrorDetail) {
	c.AbortWithStatusJSON(httpCode, Response{
		Meta: Meta{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// FromError 按错误类别输出响应，存储错误不向调用方暴露底层信息
func FromError(c *gin.Context, err error) {
	var be *errorx.BusinessError
	if !errors.As(err, &be) || be.Kind == errorx.KindStorage {
		InternalError(c, "internal server error")
		return
	}

	details := make([]ErrorDetail, 0, len(be.Details))
	for _, d := range be.Details {
		details = append(details, ErrorDetail{Path: d.Path, Info: d.Info})
	}
	Error(c, errorx.HTTPStatus(be.Kind), be.Code, be.Message, details)
}

// BadRequestWithValidation 400 错误（带验证详情）
func BadRequestWithValidation(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]ErrorDetail, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			details = append(details, ErrorDetail{
				Path: fieldErr.Namespace(),
				Info: getValidationErrorMessage(fieldErr),
			})
		}
		Error(c, http.StatusBadRequest, errorx.CodeValidation, "Validation failed", details)
		return
	}

	Error(c, http.StatusBadRequest, errorx.CodeValidation, err.Error(), nil)
}

// InternalError 500 错误
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, errorx.CodeStorage, message, nil)
}

func getValidationErrorMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fieldErr.Field() + " is required"
	case "gt":
		return fieldErr.Field() + " must be greater than " + fieldErr.Param()
	case "min":
		return fieldErr.Field() + " must be at least " + fieldErr.Param()
	case "max":
		return fieldErr.Field() + " must be at most " + fieldErr.Param()
	case "oneof":
		return fieldErr.Field() + " must be one of [" + fieldErr.Param() + "]"
	default:
		return fieldErr.Field() + " is invalid"
	}
}
