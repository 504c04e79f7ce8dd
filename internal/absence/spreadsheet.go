package absence

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// loadSpreadsheet reads an .xlsx export of the absence sheet. Expected
// columns, in order: 학번, 이름, 구분, 시작일, 종료일, 사유. The first row is
// treated as a header when its first cell is not numeric-looking.
func loadSpreadsheet(path string) ([]Entry, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open absence spreadsheet: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("absence spreadsheet %s has no sheets", path)
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read absence sheet: %w", err)
	}

	var raw []Entry
	for i, row := range rows {
		if len(row) < 5 {
			continue
		}
		studentID := strings.TrimSpace(row[0])
		if i == 0 && !isDigits(studentID) {
			continue
		}
		entry := Entry{
			StudentID: studentID,
			Name:      strings.TrimSpace(row[1]),
			Type:      strings.TrimSpace(row[2]),
			StartDate: strings.TrimSpace(row[3]),
			EndDate:   strings.TrimSpace(row[4]),
		}
		if len(row) > 5 {
			entry.Reason = strings.TrimSpace(row[5])
		}
		raw = append(raw, entry)
	}
	return normalizeEntries(raw), nil
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
