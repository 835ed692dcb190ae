package xlsexport

import (
	"bytes"
	"fmt"

	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportTimesheetList(list []dbmodels.Timesheet) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var timesheetHeaders = []string{"Сотрудник", "Этап", "Период", "Часы", "Ставка", "Стоимость", "Комментарий", "Статус"}

func (i impl) ExportTimesheetList(list []dbmodels.Timesheet) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, timesheetHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(list) != 0 {
		row, err = writeTimesheetData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	f.SetSheetName(sheet, "Табели")
	return f.WriteToBuffer()
}

func writeTimesheetData(f *excelize.File, sheet string, list []dbmodels.Timesheet, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(timesheetHeaders), len(list)+1); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		// "Сотрудник"
		col := 1
		if item.Author != nil {
			if err := writeColumn(f, sheet, col, row, item.Author.GetFullName()); err != nil {
				return row, err
			}
		}

		// "Этап"
		col++
		if item.Milestone != nil {
			if err := writeColumn(f, sheet, col, row, item.Milestone.Name); err != nil {
				return row, err
			}
		}

		// "Период"
		col++
		period := fmt.Sprintf("%s - %s", item.PeriodStart.Format("02.01.2006"), item.PeriodEnd.Format("02.01.2006"))
		if err := writeColumn(f, sheet, col, row, period); err != nil {
			return row, err
		}

		// "Часы"
		col++
		if err := writeColumn(f, sheet, col, row, item.Hours); err != nil {
			return row, err
		}

		// "Ставка"
		col++
		if err := writeColumn(f, sheet, col, row, item.Rate); err != nil {
			return row, err
		}

		// "Стоимость"
		col++
		if err := writeColumn(f, sheet, col, row, item.Cost()); err != nil {
			return row, err
		}

		// "Комментарий"
		col++
		if err := writeColumn(f, sheet, col, row, item.Comment); err != nil {
			return row, err
		}

		// "Статус"
		col++
		if err := writeColumn(f, sheet, col, row, item.Status.ToHuman()); err != nil {
			return row, err
		}
	}
	return row, nil
}
