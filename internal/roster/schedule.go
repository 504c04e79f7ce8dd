package roster

import "sort"

// StaffPair is the two staff members on duty for one grade.
type StaffPair [2]string

type DutyStaff struct {
	Grade1 *StaffPair `json:"grade1"`
	Grade2 *StaffPair `json:"grade2"`
}

// 임시 운영 기간 (2025-12-22 ~ 2026-01-02)
var tempStaffSchedule = map[string]DutyStaff{
	"2025-12-22": {Grade1: &StaffPair{"김종규", "이건우"}, Grade2: &StaffPair{"조민경", "노예원"}},
	"2025-12-23": {Grade1: &StaffPair{"이예진", "홍선영"}, Grade2: &StaffPair{"장보경", "김솔"}},
	"2025-12-24": {Grade1: &StaffPair{"홍승민", "조현정"}, Grade2: &StaffPair{"강현수", "민수정"}},
	"2025-12-25": {Grade1: &StaffPair{"박한비", "서률지"}, Grade2: &StaffPair{"정수빈", "김종규"}},
	"2025-12-26": {Grade1: &StaffPair{"이건우", "조민경"}, Grade2: &StaffPair{"노예원", "이예진"}},
	"2025-12-29": {Grade1: &StaffPair{"서률지", "정수빈"}, Grade2: &StaffPair{"김종규", "이건우"}},
	"2025-12-30": {Grade1: &StaffPair{"조민경", "노예원"}, Grade2: &StaffPair{"이예진", "홍선영"}},
	"2025-12-31": {Grade1: &StaffPair{"장보경", "김솔"}, Grade2: &StaffPair{"홍승민", "조현정"}},
	"2026-01-01": {Grade1: &StaffPair{"강현수", "민수정"}, Grade2: &StaffPair{"박한비", "서률지"}},
	"2026-01-02": {Grade1: &StaffPair{"정수빈", "김종규"}, Grade2: &StaffPair{"이건우", "조민경"}},
}

// 정규 운영 기간 (2026-01-07 ~)
var fixedStaffSchedule = map[string]DutyStaff{
	"2026-01-07": {Grade1: &StaffPair{"이예진", "조현정"}, Grade2: &StaffPair{"강현수", "김종규"}},
	"2026-01-08": {Grade1: &StaffPair{"홍선영", "홍승민"}, Grade2: &StaffPair{"민수정", "정수빈"}},
	"2026-01-09": {Grade1: &StaffPair{"장보경", "김솔"}, Grade2: &StaffPair{"박한비", "서률지"}},
	"2026-01-12": {Grade1: &StaffPair{"노예원", "조민경"}, Grade2: &StaffPair{"홍선영", "강현수"}},
	"2026-01-13": {Grade1: &StaffPair{"이건우", "장보경"}, Grade2: &StaffPair{"김솔", "박한비"}},
	"2026-01-14": {Grade1: &StaffPair{"이예진", "조현정"}, Grade2: &StaffPair{"민수정", "홍승민"}},
	"2026-01-15": {Grade1: &StaffPair{"서률지", "정수빈"}, Grade2: &StaffPair{"김종규", "이건우"}},
	"2026-01-16": {Grade1: &StaffPair{"홍승민", "홍선영"}, Grade2: &StaffPair{"조민경", "노예원"}},
	"2026-01-19": {Grade1: &StaffPair{"장보경", "박한비"}, Grade2: &StaffPair{"서률지", "이예진"}},
	"2026-01-20": {Grade1: &StaffPair{"이건우", "김종규"}, Grade2: &StaffPair{"김솔", "조현정"}},
	"2026-01-21": {Grade1: &StaffPair{"강현수", "민수정"}, Grade2: &StaffPair{"홍선영", "장보경"}},
	"2026-01-22": {Grade1: &StaffPair{"정수빈", "조현정"}, Grade2: &StaffPair{"노예원", "조민경"}},
	"2026-01-23": {Grade1: &StaffPair{"김솔", "강현수"}, Grade2: &StaffPair{"이예진", "서률지"}},
	"2026-01-26": {Grade1: &StaffPair{"민수정", "김종규"}, Grade2: &StaffPair{"홍승민", "정수빈"}},
	"2026-01-27": {Grade1: &StaffPair{"박한비", "홍선영"}, Grade2: &StaffPair{"조민경", "노예원"}},
	"2026-01-28": {Grade1: &StaffPair{"이예진", "서률지"}, Grade2: &StaffPair{"장보경", "박한비"}},
	"2026-01-29": {Grade1: &StaffPair{"노예원", "김종규"}, Grade2: &StaffPair{"강현수", "이건우"}},
	"2026-01-30": {Grade1: &StaffPair{"민수정", "조현정"}, Grade2: &StaffPair{"정수빈", "박한비"}},
	"2026-02-02": {Grade1: &StaffPair{"홍승민", "조민경"}, Grade2: &StaffPair{"서률지", "강현수"}},
	"2026-02-03": {Grade1: &StaffPair{"민수정", "김솔"}, Grade2: &StaffPair{"정수빈", "이건우"}},
}

func allStaffSchedule() map[string]DutyStaff {
	merged := make(map[string]DutyStaff, len(tempStaffSchedule)+len(fixedStaffSchedule))
	for date, staff := range tempStaffSchedule {
		merged[date] = staff
	}
	for date, staff := range fixedStaffSchedule {
		merged[date] = staff
	}
	return merged
}

// StaffForDate returns the duty staff for a YYYY-MM-DD date, with nil
// grades on non-operating days.
func StaffForDate(date string) DutyStaff {
	if staff, ok := allStaffSchedule()[date]; ok {
		return staff
	}
	return DutyStaff{}
}

func IsTemporaryPeriod(date string) bool {
	_, ok := tempStaffSchedule[date]
	return ok
}

func OperatingDates() []string {
	schedule := allStaffSchedule()
	dates := make([]string, 0, len(schedule))
	for date := range schedule {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}
