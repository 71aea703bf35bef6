package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/02ggang9/Homepage-Back/internal/model"
	"github.com/02ggang9/Homepage-Back/internal/repository"
	pkgerrors "github.com/02ggang9/Homepage-Back/pkg/errors"
)

// ErrExportGenerateFail 生成 Excel 文件失败
var ErrExportGenerateFail = errors.New("生成 Excel 文件失败")

const attendanceSheet = "出勤表"

// ExportService 导出业务接口
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportSeminarAttendance 导出研讨会出勤名单为 Excel
	ExportSeminarAttendance(ctx context.Context, seminarID int64) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ExportSeminarAttendance 输出格式：
//   - 第 1 行：标题（研讨会开始时间）
//   - 第 2 行：表头 期数 | 姓名 | 出勤状态 | 请假事由 | 签到时间
//   - 数据行按出勤记录 ID 顺序
//   - 末尾空一行后按状态汇总人数
func (s *exportService) ExportSeminarAttendance(ctx context.Context, seminarID int64) (*bytes.Buffer, string, error) {
	seminar, err := s.repo.Seminar.GetByID(ctx, seminarID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", pkgerrors.ErrSeminarNotFound
		}
		s.logger.Error("查询研讨会失败", zap.Int64("seminar_id", seminarID), zap.Error(err))
		return nil, "", err
	}

	attendances, err := s.repo.SeminarAttendance.ListBySeminar(ctx, seminarID)
	if err != nil {
		s.logger.Error("查询出勤名单失败", zap.Int64("seminar_id", seminarID), zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, _ := f.NewSheet(attendanceSheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(attendanceSheet, "A", "A", 8)
	f.SetColWidth(attendanceSheet, "B", "B", 14)
	f.SetColWidth(attendanceSheet, "C", "C", 16)
	f.SetColWidth(attendanceSheet, "D", "D", 30)
	f.SetColWidth(attendanceSheet, "E", "E", 20)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	title := fmt.Sprintf("研讨会 %s 出勤表", seminar.OpenTime.Format("2006-01-02 15:04"))
	if seminar.Name != nil && *seminar.Name != "" {
		title = fmt.Sprintf("%s (%s)", title, *seminar.Name)
	}
	f.SetCellValue(attendanceSheet, "A1", title)
	f.MergeCell(attendanceSheet, "A1", "E1")
	f.SetCellStyle(attendanceSheet, "A1", "A1", headerStyle)

	headers := []string{"期数", "姓名", "出勤状态", "请假事由", "签到时间"}
	for i, h := range headers {
		f.SetCellValue(attendanceSheet, cell(colName(i), 2), h)
	}
	f.SetCellStyle(attendanceSheet, "A2", "E2", headerStyle)

	counts := make(map[model.AttendanceType]int)
	row := 3
	for i := range attendances {
		a := &attendances[i]
		statusType := model.AttendanceTypeOf(a.SeminarAttendanceStatusID)
		if a.Status != nil {
			statusType = a.Status.Type
		}
		counts[statusType]++

		if a.Member != nil {
			f.SetCellValue(attendanceSheet, cell("A", row), a.Member.Generation)
			f.SetCellValue(attendanceSheet, cell("B", row), a.Member.RealName)
		}
		f.SetCellValue(attendanceSheet, cell("C", row), string(statusType))
		if a.Excuse != nil {
			f.SetCellValue(attendanceSheet, cell("D", row), a.Excuse.AbsenceExcuse)
		} else {
			f.SetCellValue(attendanceSheet, cell("D", row), "-")
		}
		f.SetCellValue(attendanceSheet, cell("E", row), a.SeminarAttendTime.Format("2006-01-02 15:04:05"))
		row++
	}

	// 汇总
	row++
	for _, t := range []model.AttendanceType{
		model.AttendanceTypeAttendance,
		model.AttendanceTypeLateness,
		model.AttendanceTypeAbsence,
		model.AttendanceTypePersonal,
	} {
		f.SetCellValue(attendanceSheet, cell("C", row), string(t))
		f.SetCellValue(attendanceSheet, cell("D", row), counts[t])
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("研讨会出勤_%s.xlsx", seminar.OpenTime.Format("2006-01-02"))
	return buf, filename, nil
}

// colName 0-based 列号转 Excel 列名
func colName(i int) string {
	name, _ := excelize.ColumnNumberToName(i + 1)
	return name
}

// cell 拼接单元格坐标
func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
