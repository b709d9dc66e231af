// Package export writes a user's leave and WFH records as an xlsx workbook.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	leavedm "github.com/frahmantamala/jinzai/internal/core/datamodel/leave"
	userdm "github.com/frahmantamala/jinzai/internal/core/datamodel/user"
	wfhdm "github.com/frahmantamala/jinzai/internal/core/datamodel/wfh"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	SheetLeaves = "Leaves"
	SheetWFH    = "WFH"
)

var (
	leaveHeader = []interface{}{"ID", "Type", "From", "To", "Days", "Status", "Comments"}
	wfhHeader   = []interface{}{"ID", "Category", "From", "To", "Days", "Status", "Comments"}
)

// File is a finished workbook ready to be sent as a download.
type File struct {
	Name string
	Data []byte
}

// UserRecords builds a workbook with one sheet of leave requests and one of
// WFH requests. Dates are written as YYYY-MM-DD text so spreadsheet
// timezones cannot move them.
func UserRecords(u userdm.User, leaves []leavedm.LeaveRequest, wfh []wfhdm.WfhRequest) (*File, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetLeaves); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetWFH); err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	leaveRows := make([][]interface{}, 0, len(leaves))
	for _, l := range leaves {
		leaveRows = append(leaveRows, []interface{}{
			l.ID, l.LeaveType.Label(), l.StartDate.String(), l.EndDate.String(), l.NumDays, string(l.Status), l.ReasonText(),
		})
	}
	if err := writeSheet(f, SheetLeaves, leaveHeader, leaveRows, bold); err != nil {
		return nil, err
	}

	wfhRows := make([][]interface{}, 0, len(wfh))
	for _, w := range wfh {
		wfhRows = append(wfhRows, []interface{}{
			w.ID, w.EffectiveCategory().Label(), w.StartDate.String(), w.EndDate.String(), w.NumDays, string(w.Status), w.ReasonText(),
		})
	}
	if err := writeSheet(f, SheetWFH, wfhHeader, wfhRows, bold); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return &File{Name: fileName(u), Data: buf.Bytes()}, nil
}

func writeSheet(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("%s header style: %w", sheet, err)
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}
	return f.SetColWidth(sheet, "B", "G", 16)
}

func fileName(u userdm.User) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '@', r == '.', r == '-', r == '_':
			return r
		}
		return '-'
	}, u.Email)
	if base == "" {
		base = "user"
	}
	return fmt.Sprintf("%s-%d-records.xlsx", base, u.ID)
}
