package absence

// Static fallback used only when the spreadsheet feed cannot be reached.
// The live data comes from the feed; keep this table as a safety net for
// the operating period.
var fallbackEntries = []Entry{
	// 1학년 (2025-12-22 ~ 29)
	{StudentID: "10103", Reason: "병원 (정기검진)", StartDate: "2025-12-22", EndDate: "2025-12-22"},
	{StudentID: "10118", Reason: "가족여행", StartDate: "2025-12-23", EndDate: "2025-12-26"},
	{StudentID: "10225", Reason: "학원 특강", StartDate: "2025-12-24", EndDate: "2025-12-24"},
	{StudentID: "10322", Reason: "경조사", StartDate: "2025-12-22", EndDate: "2025-12-23"},
	{StudentID: "10421", Reason: "병원 (치과)", StartDate: "2025-12-26", EndDate: "2025-12-26"},
	{StudentID: "10528", Reason: "개인사정", StartDate: "2025-12-27", EndDate: "2025-12-29"},
	{StudentID: "10621", Reason: "가족여행", StartDate: "2025-12-24", EndDate: "2025-12-27"},
	{StudentID: "10725", Reason: "병원", StartDate: "2025-12-23", EndDate: "2025-12-23"},
	{StudentID: "10812", Reason: "학원 캠프", StartDate: "2025-12-26", EndDate: "2025-12-29"},
	{StudentID: "10930", Reason: "경조사 (결혼식)", StartDate: "2025-12-28", EndDate: "2025-12-29"},
	{StudentID: "11115", Reason: "병원 (수술)", StartDate: "2025-12-22", EndDate: "2025-12-26"},
	{StudentID: "11219", Reason: "해외여행", StartDate: "2025-12-23", EndDate: "2025-12-29"},

	// 2학년 (2025-12-22 ~ 29)
	{StudentID: "20109", Reason: "병원", StartDate: "2025-12-22", EndDate: "2025-12-22"},
	{StudentID: "20212", Reason: "가족여행", StartDate: "2025-12-24", EndDate: "2025-12-27"},
	{StudentID: "20317", Reason: "학원 특강", StartDate: "2025-12-23", EndDate: "2025-12-24"},
	{StudentID: "20412", Reason: "경조사", StartDate: "2025-12-26", EndDate: "2025-12-27"},
	{StudentID: "20521", Reason: "병원 (정형외과)", StartDate: "2025-12-22", EndDate: "2025-12-24"},
	{StudentID: "20619", Reason: "개인사정", StartDate: "2025-12-28", EndDate: "2025-12-29"},
	{StudentID: "20722", Reason: "가족여행", StartDate: "2025-12-23", EndDate: "2025-12-26"},
	{StudentID: "20823", Reason: "해외여행", StartDate: "2025-12-22", EndDate: "2025-12-29"},
	{StudentID: "20922", Reason: "병원", StartDate: "2025-12-27", EndDate: "2025-12-27"},
	{StudentID: "21022", Reason: "학원", StartDate: "2025-12-24", EndDate: "2025-12-25"},
	{StudentID: "21117", Reason: "경조사 (장례)", StartDate: "2025-12-26", EndDate: "2025-12-28"},
	{StudentID: "21215", Reason: "가족행사", StartDate: "2025-12-29", EndDate: "2025-12-29"},

	// 1학년 (2025-12-30 ~ 31)
	{StudentID: "10101", Reason: "병원 (감기)", StartDate: "2025-12-30", EndDate: "2025-12-31"},
	{StudentID: "10114", Reason: "가족여행", StartDate: "2025-12-30", EndDate: "2025-12-31"},
	{StudentID: "10201", Reason: "학원 특강", StartDate: "2025-12-30", EndDate: "2025-12-30"},
	{StudentID: "10310", Reason: "경조사", StartDate: "2025-12-31", EndDate: "2025-12-31"},
	{StudentID: "10402", Reason: "병원", StartDate: "2025-12-30", EndDate: "2025-12-31"},
	{StudentID: "10507", Reason: "개인사정", StartDate: "2025-12-30", EndDate: "2025-12-31"},
	{StudentID: "10608", Reason: "가족행사", StartDate: "2025-12-31", EndDate: "2025-12-31"},
	{StudentID: "10719", Reason: "병원 (치과)", StartDate: "2025-12-30", EndDate: "2025-12-30"},
	{StudentID: "10807", Reason: "해외여행", StartDate: "2025-12-30", EndDate: "2025-12-31"},
	{StudentID: "10904", Reason: "학원 캠프", StartDate: "2025-12-30", EndDate: "2025-12-31"},
	{StudentID: "11009", Reason: "경조사 (결혼식)", StartDate: "2025-12-30", EndDate: "2025-12-31"},
	{StudentID: "11108", Reason: "병원 (수술 후 회복)", StartDate: "2025-12-30", EndDate: "2025-12-31"},
	{StudentID: "11203", Reason: "가족여행", StartDate: "2025-12-30", EndDate: "2025-12-31"},

	// 2학년 (2025-12-30 ~ 31)
	{StudentID: "20104", Reason: "병원", StartDate: "2025-12-30", EndDate: "2025-12-31"},
	{StudentID: "20208", Reason: "가족여행", StartDate: "2025-12-30", EndDate: "2025-12-31"},
	{StudentID: "20305", Reason: "학원", StartDate: "2025-12-30", EndDate: "2025-12-30"},
	{StudentID: "20406", Reason: "경조사", StartDate: "2025-12-31", EndDate: "2025-12-31"},
	{StudentID: "20512", Reason: "병원 (정형외과)", StartDate: "2025-12-30", EndDate: "2025-12-31"},
	{StudentID: "20611", Reason: "개인사정", StartDate: "2025-12-30", EndDate: "2025-12-31"},
	{StudentID: "20703", Reason: "가족행사", StartDate: "2025-12-31", EndDate: "2025-12-31"},
	{StudentID: "20807", Reason: "해외여행", StartDate: "2025-12-30", EndDate: "2025-12-31"},
	{StudentID: "20906", Reason: "병원", StartDate: "2025-12-30", EndDate: "2025-12-30"},
	{StudentID: "21005", Reason: "학원 특강", StartDate: "2025-12-30", EndDate: "2025-12-31"},
	{StudentID: "21106", Reason: "경조사 (장례)", StartDate: "2025-12-30", EndDate: "2025-12-31"},
	{StudentID: "21203", Reason: "가족여행", StartDate: "2025-12-30", EndDate: "2025-12-31"},
}
