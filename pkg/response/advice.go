package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	pkgerrors "github.com/02ggang9/Homepage-Back/pkg/errors"
)

// LocaleKey gin.Context 中保存请求语言的键（由 Locale 中间件写入）
const LocaleKey = "locale"

// MessageSource 消息目录
type MessageSource interface {
	Message(key, locale string) string
	Code(key, locale string) int
	DefaultLocale() string
}

// Advisor 将任意错误转换为统一失败响应，是错误到 HTTP 响应的唯一出口
type Advisor struct {
	messages MessageSource
	logger   *zap.Logger
}

// NewAdvisor 创建 Advisor
func NewAdvisor(messages MessageSource, logger *zap.Logger) *Advisor {
	return &Advisor{messages: messages, logger: logger}
}

// Translate 计算错误对应的 HTTP 状态码与响应体
func (a *Advisor) Translate(err error, locale string) (int, Response) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return http.StatusBadRequest, Response{
			Success: false,
			Code:    http.StatusBadRequest,
			Message: FormatValidationErrors(ve),
		}
	}

	kind, own := classify(err)
	entry := pkgerrors.Lookup(kind)
	if kind == pkgerrors.KindValidation {
		return entry.Status, Response{Success: false, Code: entry.Status, Message: own}
	}

	message := own
	if entry.CatalogOnly || message == "" {
		message = a.messages.Message(entry.Key, locale)
	}

	return entry.Status, Response{
		Success: false,
		Code:    a.messages.Code(entry.Key, locale),
		Message: message,
	}
}

// Fail 写出失败响应并中止后续处理
func (a *Advisor) Fail(c *gin.Context, err error) {
	status, resp := a.Translate(err, a.Locale(c))

	if status >= http.StatusInternalServerError {
		a.logger.Error("请求处理失败",
			zap.String("path", c.FullPath()),
			zap.Int("code", resp.Code),
			zap.Error(err),
		)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}

// Locale 读取请求语言，缺省使用目录默认语言
func (a *Advisor) Locale(c *gin.Context) string {
	if v, ok := c.Get(LocaleKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return a.messages.DefaultLocale()
}

// classify 将错误归类，第二个返回值为错误自带的消息（可能为空）
func classify(err error) (pkgerrors.Kind, string) {
	var appErr *pkgerrors.Error
	if errors.As(err, &appErr) {
		return appErr.Kind, appErr.Msg
	}

	var typeErr *json.UnmarshalTypeError
	var numErr *strconv.NumError
	var timeErr *time.ParseError
	if errors.As(err, &typeErr) || errors.As(err, &numErr) || errors.As(err, &timeErr) {
		return pkgerrors.KindArgumentTypeMismatch, ""
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return pkgerrors.KindPayloadTooLarge, ""
	}

	// 请求体为空或不是合法 JSON
	var syntaxErr *json.SyntaxError
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.As(err, &syntaxErr) {
		return pkgerrors.KindValidation, "request body is missing or malformed"
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return pkgerrors.KindDataDuplicate, ""
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.KindDataNotFound, ""
	}

	return pkgerrors.KindUnknown, ""
}
