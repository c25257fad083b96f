package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"recruit-hub/backend/internal/model"
	"recruit-hub/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出求职申请为 Excel (.xlsx)，可按职位过滤
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - 没有任何申请时仍导出仅含表头的文件
type ExportService interface {
	// ExportApplications vacancyID 为 nil 时导出全部申请
	ExportApplications(ctx context.Context, vacancyID *uint) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger, now: time.Now}
}

// exportColumns 表头与列宽
var exportColumns = []struct {
	title string
	width float64
}{
	{"ID", 8},
	{"Вакансия", 28},
	{"Имя", 24},
	{"Email", 28},
	{"Телефон", 18},
	{"Сообщение", 40},
	{"Резюме", 24},
	{"Статус", 14},
	{"Дата", 20},
}

// ═══════════════════════════════════════════════════════════
// ExportApplications 导出求职申请为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单个 Sheet "Заявки"
//   - 第 1 行：标题（合并单元格）
//   - 第 2 行：表头
//   - 第 3 行起：每条申请一行，按 id 升序
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportApplications(ctx context.Context, vacancyID *uint) (*bytes.Buffer, string, error) {
	// 1. 查询申请
	var (
		apps  []model.Application
		title = "Заявки"
		err   error
	)
	if vacancyID != nil {
		vacancy, verr := s.repo.Vacancy.GetByID(ctx, *vacancyID)
		if verr != nil {
			if errors.Is(verr, gorm.ErrRecordNotFound) {
				return nil, "", ErrVacancyNotFound
			}
			s.logger.Error("查询职位失败", zap.Error(verr))
			return nil, "", verr
		}
		apps, err = s.repo.Application.ListByVacancy(ctx, *vacancyID)
		for i := range apps {
			apps[i].Vacancy = vacancy
		}
		title = fmt.Sprintf("Заявки — %s", vacancy.Name)
	} else {
		apps, err = s.repo.Application.List(ctx)
	}
	if err != nil {
		s.logger.Error("查询申请失败", zap.Error(err))
		return nil, "", err
	}

	// 2. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Заявки"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	for i, c := range exportColumns {
		col := colName(i)
		f.SetColWidth(sheetName, col, col, c.width)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", title)
	f.MergeCell(sheetName, "A1", cell(colName(len(exportColumns)-1), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	for i, c := range exportColumns {
		f.SetCellValue(sheetName, cell(colName(i), 2), c.title)
	}
	f.SetCellStyle(sheetName, "A2", cell(colName(len(exportColumns)-1), 2), headerStyle)

	// 数据行
	row := 3
	for i := range apps {
		a := &apps[i]
		vacancyName := ""
		if a.Vacancy != nil {
			vacancyName = a.Vacancy.Name
		}
		values := []interface{}{
			a.ID,
			vacancyName,
			a.Name,
			a.Email,
			deref(a.Phone),
			deref(a.Message),
			deref(a.ResumeName),
			string(a.Status),
			a.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			f.SetCellValue(sheetName, cell(colName(col), row), v)
		}
		row++
	}

	// 3. 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("applications_%s.xlsx", s.now().Format("20060102"))
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
