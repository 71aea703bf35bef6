package errors

import (
	"errors"
	"net/http"
)

// Kind 业务错误种类
// 每种错误对应消息目录中的一个 key 与固定的 HTTP 状态码
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindArgumentTypeMismatch
	KindMissingParameter
	KindAuthenticationEntryPoint
	KindAccessDenied
	KindMemberNotFound
	KindDataNotFound
	KindDataDuplicate
	KindSeminarNotFound
	KindSeminarAttendanceNotFound
	KindSeminarAttendanceStatusNotFound
	KindAttendanceAbsenceExcuseIsNull
	KindOptimisticLock
	KindPayloadTooLarge
	KindTooManyRequests
)

// Entry 错误种类的注册信息
type Entry struct {
	Key    string // 消息目录 key，目录中对应 <Key>.code / <Key>.msg
	Status int
	// CatalogOnly 为 true 时忽略错误自带消息，始终使用目录消息
	CatalogOnly bool
}

// registry 错误种类 → 注册信息
// 状态码沿用历史约定，not-found 类并不统一
var registry = map[Kind]Entry{
	KindUnknown:                         {Key: "unKnown", Status: http.StatusInternalServerError, CatalogOnly: true},
	KindValidation:                      {Key: "", Status: http.StatusBadRequest},
	KindArgumentTypeMismatch:            {Key: "argumentTypeMismatch", Status: http.StatusBadRequest, CatalogOnly: true},
	KindMissingParameter:                {Key: "missingServletRequestParameter", Status: http.StatusBadRequest, CatalogOnly: true},
	KindAuthenticationEntryPoint:        {Key: "entryPointException", Status: http.StatusUnauthorized, CatalogOnly: true},
	KindAccessDenied:                    {Key: "accessDenied", Status: http.StatusForbidden},
	KindMemberNotFound:                  {Key: "memberNotFound", Status: http.StatusInternalServerError},
	KindDataNotFound:                    {Key: "dataNotFound", Status: http.StatusBadRequest},
	KindDataDuplicate:                   {Key: "dataDuplicate", Status: http.StatusConflict},
	KindSeminarNotFound:                 {Key: "seminarNotFound", Status: http.StatusBadRequest},
	KindSeminarAttendanceNotFound:       {Key: "seminarAttendanceNotFound", Status: http.StatusBadRequest},
	KindSeminarAttendanceStatusNotFound: {Key: "seminarAttendanceStatusNotFound", Status: http.StatusBadRequest},
	KindAttendanceAbsenceExcuseIsNull:   {Key: "attendanceAbsenceExcuseIsNull", Status: http.StatusBadRequest},
	KindOptimisticLock:                  {Key: "optimisticLock", Status: http.StatusConflict, CatalogOnly: true},
	KindPayloadTooLarge:                 {Key: "payloadTooLarge", Status: http.StatusRequestEntityTooLarge, CatalogOnly: true},
	KindTooManyRequests:                 {Key: "tooManyRequests", Status: http.StatusTooManyRequests, CatalogOnly: true},
}

// Lookup 查询错误种类的注册信息，未注册的种类按 KindUnknown 处理
func Lookup(kind Kind) Entry {
	if e, ok := registry[kind]; ok {
		return e
	}
	return registry[KindUnknown]
}

// Keys 返回所有已注册的目录 key（校验错误除外）
func Keys() []string {
	keys := make([]string, 0, len(registry))
	for _, e := range registry {
		if e.Key != "" {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

// Error 带种类的业务错误
type Error struct {
	Kind Kind
	Msg  string // 可选，覆盖目录默认消息
	Err  error  // 可选，底层原因（仅用于日志）
}

// New 创建指定种类的错误
func New(kind Kind) *Error {
	return &Error{Kind: kind}
}

// WithMessage 创建带自定义消息的错误
func WithMessage(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap 将底层错误包装为指定种类
func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return Lookup(e.Kind).Key + ": " + e.Err.Error()
	default:
		return Lookup(e.Kind).Key
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is 按种类比较，使 errors.Is(err, ErrSeminarNotFound) 对带消息的同类错误也成立
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf 提取错误种类，非 *Error 返回 KindUnknown
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return KindUnknown, false
}

// ── 常用哨兵错误 ──

var (
	ErrMemberNotFound                  = New(KindMemberNotFound)
	ErrSeminarNotFound                 = New(KindSeminarNotFound)
	ErrSeminarAttendanceNotFound       = New(KindSeminarAttendanceNotFound)
	ErrSeminarAttendanceStatusNotFound = New(KindSeminarAttendanceStatusNotFound)
	ErrAbsenceExcuseIsNull             = New(KindAttendanceAbsenceExcuseIsNull)
	ErrAccessDenied                    = New(KindAccessDenied)
	ErrAuthenticationEntryPoint        = New(KindAuthenticationEntryPoint)
	ErrArgumentTypeMismatch            = New(KindArgumentTypeMismatch)
	ErrMissingParameter                = New(KindMissingParameter)
	ErrTooManyRequests                 = New(KindTooManyRequests)

	// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
	ErrOptimisticLock = WithMessage(KindOptimisticLock, "数据已被其他操作修改，请刷新后重试")
)
