package dto

const (
	// DefaultPageSize 每页默认返回的研讨会数量
	DefaultPageSize = 10
	// MaxPageSize 单页研讨会数量上限，每场研讨会会连带整份出勤名单
	MaxPageSize = 100
)

// PaginationRequest 研讨会出勤分页参数，page 从 1 开始
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage 页码，未传或非法时取第 1 页
func (p *PaginationRequest) GetPage() int {
	if p.Page < 1 {
		return 1
	}
	return p.Page
}

// GetPageSize 每页数量，限制在 [1, MaxPageSize]
func (p *PaginationRequest) GetPageSize() int {
	switch {
	case p.PageSize < 1:
		return DefaultPageSize
	case p.PageSize > MaxPageSize:
		return MaxPageSize
	}
	return p.PageSize
}

// GetOffset 按页码换算的起始偏移
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}
