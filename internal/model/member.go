package model

// 会员类型 ID（member_types 参考数据，由迁移写入）
const (
	MemberTypeNonMember     int64 = 1
	MemberTypeRegularMember int64 = 2
	MemberTypeSleeper       int64 = 3
	MemberTypeGraduate      int64 = 4
	MemberTypeWithdrawal    int64 = 5
)

// 会员角色（写入 JWT role 声明）
const (
	RoleMember    = "member"
	RoleClerk     = "clerk"     // 书记：负责研讨会出勤
	RolePresident = "president" // 会长
	RoleAdmin     = "admin"
)

// MemberType 会员类型表，对应 member_types
type MemberType struct {
	ID   int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name string `gorm:"type:varchar(45);not null" json:"name"`
}

// TableName 指定表名
func (MemberType) TableName() string { return "member_types" }

// Member 会员表，对应 members
// demerit 只通过研讨会出勤状态变更修改
type Member struct {
	ID           int64   `gorm:"primaryKey;autoIncrement"         json:"id"`
	LoginID      string  `gorm:"type:varchar(80);not null;unique" json:"login_id"`
	RealName     string  `gorm:"type:varchar(40);not null"        json:"real_name"`
	NickName     string  `gorm:"type:varchar(40);not null"        json:"nick_name"`
	StudentID    string  `gorm:"type:varchar(45);not null;unique" json:"student_id"`
	EmailAddress string  `gorm:"type:varchar(250);not null"       json:"email_address"`
	MemberTypeID int64   `gorm:"not null;default:1"               json:"member_type_id"`
	Role         string  `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	Generation   float64 `gorm:"not null;default:0"               json:"generation"`
	Point        int     `gorm:"not null;default:0"               json:"point"`
	Merit        int     `gorm:"not null;default:0"               json:"merit"`
	Demerit      int     `gorm:"not null;default:0"               json:"demerit"`
	VersionedModel

	// 关联
	MemberType *MemberType `gorm:"foreignKey:MemberTypeID;references:ID" json:"member_type,omitempty"`
}

// TableName 指定表名
func (Member) TableName() string { return "members" }

// IncreaseDemerit 增加罚分
func (m *Member) IncreaseDemerit(point int) { m.Demerit += point }

// DecreaseDemerit 扣减罚分
func (m *Member) DecreaseDemerit(point int) { m.Demerit -= point }
